package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/validator"
	"github.com/siahsang/postfeed/models"
)

type postInput struct {
	Text  string  `json:"text"`
	Group *string `json:"group"`
	Image *string `json:"image"`
}

type PostRequest struct {
	postInput `json:"post"`
}

// resolvePostInput validates the input and turns the group slug into an id.
func (app *application) resolvePostInput(ctx context.Context, in postInput, v *validator.Validator) (core.PostChanges, error) {
	changes := core.PostChanges{
		Text:  strings.TrimSpace(in.Text),
		Image: in.Image,
	}

	v.CheckNotBlank(changes.Text, "text", "must be provided")

	if in.Group != nil && strings.TrimSpace(*in.Group) != "" {
		group, err := app.core.GetGroupBySlug(ctx, strings.TrimSpace(*in.Group))
		switch {
		case errors.Is(err, core.NoRecordFound):
			v.AddError("group", "does not exist")
		case err != nil:
			return changes, err
		default:
			changes.GroupID = &group.ID
		}
	}

	return changes, nil
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var request PostRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	v := validator.New()
	changes, err := app.resolvePostInput(r.Context(), request.postInput, v)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	_, err = app.core.CreatePost(r.Context(), &models.Post{
		Text:     changes.Text,
		AuthorID: user.ID,
		GroupID:  changes.GroupID,
		Image:    changes.Image,
	})
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, profilePath(user.Username))
}

func (app *application) postDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	detail, err := app.core.GetPostDetail(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	following, err := app.core.IsFollowing(r.Context(), app.auth.CurrentUser(r), detail.Post.AuthorID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	body := envelope{
		"post":             postEnvelope(detail.Post, following),
		"comments":         commentEnvelopes(detail.Comments),
		"authorPostsCount": detail.AuthorPostsCount,
	}
	if err := app.writeJSON(w, http.StatusOK, body, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// editPostHandler sends anyone but the author back to the read-only detail page.
func (app *application) editPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.auth.CurrentUser(r)
	post, ok := app.authoredPost(w, r, user, id)
	if !ok {
		return
	}

	var request PostRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	changes, err := app.resolvePostInput(r.Context(), request.postInput, v)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	if _, err := app.core.UpdatePost(r.Context(), user, post.ID, changes); err != nil {
		switch {
		case errors.Is(err, core.ErrPermissionDenied):
			app.redirect(w, r, postPath(post.ID))
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, postPath(post.ID))
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.auth.CurrentUser(r)
	if _, ok := app.authoredPost(w, r, user, id); !ok {
		return
	}

	if _, err := app.core.DeletePost(r.Context(), user, id); err != nil {
		switch {
		case errors.Is(err, core.ErrPermissionDenied):
			app.redirect(w, r, postPath(id))
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, profilePath(user.Username))
}

// authoredPost loads the post and answers the request itself when the post is
// missing (404) or belongs to someone else (303 to its detail page).
func (app *application) authoredPost(w http.ResponseWriter, r *http.Request, user *auth.User, id int64) (*models.Post, bool) {
	post, err := app.core.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return nil, false
	}

	if user == nil || post.AuthorID != user.ID {
		app.redirect(w, r, postPath(post.ID))
		return nil, false
	}
	return post, true
}
