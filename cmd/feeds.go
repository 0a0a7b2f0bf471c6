package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/cache"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/filter"
	"github.com/siahsang/postfeed/internal/validator"
)

const indexScope = "index"

// readPage returns the requested page number or writes a 400 and reports false.
func (app *application) readPage(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := validator.New()
	page := app.readInt(r.URL.Query(), "page", 1, v)
	filter.ValidatePage(v, page)

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return 0, false
	}
	if page < 1 {
		page = 1
	}
	return page, true
}

// indexFeedHandler serves the global feed. Rendered pages are cached for the
// configured TTL, so posts created or deleted meanwhile may not show up yet.
// Pages are stored under the page number actually served, so a request past
// the last page is rendered again every time instead of adding a new entry.
func (app *application) indexFeedHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := app.readPage(w, r)
	if !ok {
		return
	}

	key := cache.Key(indexScope, page)
	content, hit, err := app.pageCache.Get(r.Context(), key)
	if err != nil {
		app.logger.Warn("Page cache lookup failed", "key", key, "error", err)
	}
	if hit {
		if err := app.writeBytes(w, http.StatusOK, content, http.Header{"X-Cache": {"HIT"}}); err != nil {
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	rendered, err, _ := app.feedFills.Do(key, func() (any, error) {
		// The result is shared by every caller waiting on key, so it is not
		// bound to this request's cancellation. Queries keep their timeout.
		ctx := context.WithoutCancel(r.Context())

		feed, err := app.core.GlobalFeed(ctx, page)
		if err != nil {
			return nil, err
		}

		body, err := app.feedEnvelope(ctx, nil, feed)
		if err != nil {
			return nil, err
		}

		js, err := marshalJSON(body)
		if err != nil {
			return nil, err
		}

		servedKey := cache.Key(indexScope, feed.Metadata.CurrentPage)
		if err := app.pageCache.Put(ctx, servedKey, js); err != nil {
			app.logger.Warn("Page cache store failed", "key", servedKey, "error", err)
		}
		return js, nil
	})
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeBytes(w, http.StatusOK, rendered.([]byte), http.Header{"X-Cache": {"MISS"}}); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) groupFeedHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := app.readPage(w, r)
	if !ok {
		return
	}

	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	group, feed, err := app.core.GroupFeed(r.Context(), slug, page)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	body, err := app.feedEnvelope(r.Context(), app.auth.CurrentUser(r), feed)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	body["group"] = groupEnvelope(group)

	if err := app.writeJSON(w, http.StatusOK, body, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followFeedHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := app.readPage(w, r)
	if !ok {
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, xerrors.New(err))
		return
	}

	feed, err := app.core.FollowingFeed(r.Context(), user, page)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	body, err := app.feedEnvelope(r.Context(), user, feed)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, body, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
