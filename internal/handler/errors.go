package handler

import (
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"marketstats-api/internal/logic"
	"marketstats-api/internal/types"
)

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var notFound *logic.NotFoundError
	if errors.As(err, &notFound) {
		httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, types.ErrorResponse{Message: notFound.Message})
		return
	}
	logx.WithContext(ctx).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	httpx.WriteJsonCtx(ctx, w, http.StatusInternalServerError, types.ErrorResponse{Message: "internal server error"})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteJsonCtx(r.Context(), w, http.StatusBadRequest, types.ErrorResponse{Message: err.Error()})
}
