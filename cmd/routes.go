package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// users
	router.HandlerFunc(http.MethodPost, "/api/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/users/login", app.loginHandler)

	// feeds
	router.HandlerFunc(http.MethodGet, "/api/posts", app.indexFeedHandler)
	router.HandlerFunc(http.MethodGet, "/api/groups/:slug", app.groupFeedHandler)
	router.HandlerFunc(http.MethodGet, "/api/follow", app.requireAuthenticatedUser(app.followFeedHandler))

	// posts
	router.HandlerFunc(http.MethodPost, "/api/posts", app.requireAuthenticatedUser(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/api/posts/:id", app.postDetailHandler)
	router.HandlerFunc(http.MethodPut, "/api/posts/:id", app.requireAuthenticatedUser(app.editPostHandler))
	router.HandlerFunc(http.MethodDelete, "/api/posts/:id", app.requireAuthenticatedUser(app.deletePostHandler))

	// comments
	router.HandlerFunc(http.MethodPost, "/api/posts/:id/comments", app.requireAuthenticatedUser(app.addCommentHandler))

	// profiles
	router.HandlerFunc(http.MethodGet, "/api/profiles/:username", app.profileHandler)
	router.HandlerFunc(http.MethodPost, "/api/profiles/:username/follow", app.requireAuthenticatedUser(app.followHandler))
	router.HandlerFunc(http.MethodDelete, "/api/profiles/:username/follow", app.requireAuthenticatedUser(app.unfollowHandler))

	return app.recoverPanic(app.logRequest(app.authenticate(router)))
}
