package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/validator"
	"github.com/siahsang/postfeed/models"
)

// addCommentHandler always lands on the post detail page. Invalid comments are
// dropped without an error.
func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	type input struct {
		Text string `json:"text"`
	}

	type CreateCommentRequest struct {
		input `json:"comment"`
	}

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	post, err := app.core.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	var request CreateCommentRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.logger.Debug("Ignoring unreadable comment", "post_id", post.ID, "error", err)
		app.redirect(w, r, postPath(post.ID))
		return
	}

	text := strings.TrimSpace(request.Text)
	v := validator.New()
	v.CheckNotBlank(text, "text", "must be provided")
	if !v.IsValid() {
		app.logger.Debug("Ignoring invalid comment", "post_id", post.ID, "errors", v.Errors)
		app.redirect(w, r, postPath(post.ID))
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	_, err = app.core.CreateComment(r.Context(), &models.Comment{
		Text:     text,
		PostID:   post.ID,
		AuthorID: user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, postPath(post.ID))
}
