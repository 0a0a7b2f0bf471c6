package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/postfeed/internal/core"
)

func (app *application) profileHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := app.readPage(w, r)
	if !ok {
		return
	}

	username := httprouter.ParamsFromContext(r.Context()).ByName("username")
	viewer := app.auth.CurrentUser(r)

	profile, feed, err := app.core.ProfileFeed(r.Context(), username, viewer, page)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	body, err := app.feedEnvelope(r.Context(), viewer, feed)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	body["profile"] = profile

	if err := app.writeJSON(w, http.StatusOK, body, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followHandler(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	author, err := app.core.Follow(r.Context(), app.auth.CurrentUser(r), username)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, profilePath(author.Username))
}

func (app *application) unfollowHandler(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	author, err := app.core.Unfollow(r.Context(), app.auth.CurrentUser(r), username)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound), errors.Is(err, core.UserIsNotFollowed):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, profilePath(author.Username))
}
