// Package todo binds the checklist's GraphQL operations to the data client.
package todo

import (
	"github.com/idilsaglam/checklist/internal/gql"
	"github.com/idilsaglam/checklist/internal/model"
)

// Operation names as the remote schema knows them.
const (
	OpGetTodos    = "getTodos"
	OpAddTodo     = "addTodo"
	OpToggleTodo  = "toggleTodo"
	OpDeleteTodos = "deleteTodos"
)

var (
	GetTodos = gql.Operation{
		Name: OpGetTodos,
		Document: `query getTodos {
  todos {
    done
    id
    text
  }
}`,
	}

	AddTodo = gql.Operation{
		Name: OpAddTodo,
		Document: `mutation addTodo($text: String!) {
  insert_todos(objects: { text: $text }) {
    returning {
      done
      id
      text
    }
  }
}`,
	}

	ToggleTodo = gql.Operation{
		Name: OpToggleTodo,
		Document: `mutation toggleTodo($id: uuid!, $done: Boolean!) {
  update_todos(where: { id: { _eq: $id } }, _set: { done: $done }) {
    returning {
      done
      id
      text
    }
  }
}`,
	}

	DeleteTodos = gql.Operation{
		Name: OpDeleteTodos,
		Document: `mutation deleteTodos($id: uuid!) {
  delete_todos(where: { id: { _eq: $id } }) {
    returning {
      done
      id
      text
    }
  }
}`,
	}
)

// ListResult is the data shape of getTodos.
type ListResult struct {
	Todos []model.Item `json:"todos"`
}

type returning struct {
	Returning []model.Item `json:"returning"`
}

type insertResult struct {
	Insert returning `json:"insert_todos"`
}

type updateResult struct {
	Update returning `json:"update_todos"`
}

type deleteResult struct {
	Delete returning `json:"delete_todos"`
}
