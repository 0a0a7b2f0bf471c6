package core

import (
	"log/slog"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/filter"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
)

var (
	NoRecordFound        = xerrors.Message("No record found")
	ErrDuplicateEmail    = xerrors.Message("Duplicate email")
	ErrDuplicateUsername = xerrors.Message("Duplicate username")
	ErrDuplicatedSlug    = xerrors.Message("Duplicate slug")
	ErrPermissionDenied  = xerrors.Message("Permission denied")
)

type Core struct {
	log         *slog.Logger
	sqlTemplate *databaseutils.SQLTemplate
	paginator   *filter.Paginator
}

func NewCore(log *slog.Logger, sqlTemplate *databaseutils.SQLTemplate, paginator *filter.Paginator) *Core {
	return &Core{
		log:         log,
		sqlTemplate: sqlTemplate,
		paginator:   paginator,
	}
}
