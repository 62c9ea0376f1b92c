package cli

import "net/http"

func secretRecorder(dst *string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*dst = r.Header.Get("x-hasura-admin-secret")
		next.ServeHTTP(w, r)
	})
}
