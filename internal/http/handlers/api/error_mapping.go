package api

import (
	handlershared "github.com/mlops-microproject/review-workspace/internal/http/handlers/shared"
	"github.com/mlops-microproject/review-workspace/internal/http/response"
	"github.com/mlops-microproject/review-workspace/internal/models"
	"github.com/mlops-microproject/review-workspace/internal/service"
	"github.com/mlops-microproject/review-workspace/internal/workspace"
)

var requestBodyErrorRules = []handlershared.MappedError{
	{Target: handlershared.ErrBodyTooLarge, Code: response.CodeBadRequest},
	{Target: models.ErrMissingOrder, Code: response.CodeBadRequest},
	{Target: models.ErrMalformedOrder, Code: response.CodeBadRequest},
	{Target: models.ErrUnknownOrderField, Code: response.CodeBadRequest},
}

var analyzeJobErrorRules = []handlershared.MappedError{
	{Target: service.ErrAsyncUnavailable, Code: response.CodeServiceUnavailable},
	{Target: service.ErrJobNotFound, Code: response.CodeNotFound},
	{Target: service.ErrEmptyBatch, Code: response.CodeBadRequest},
}

// import messages are shown to the user verbatim, so Msg stays empty and
// the sentinel text is used.
var workspaceErrorRules = []handlershared.MappedError{
	{Target: service.ErrWorkspaceNotFound, Code: response.CodeNotFound},
	{Target: service.ErrWorkspaceLimit, Code: response.CodeTooManyRequests},
	{Target: service.ErrTooManyOrders, Code: response.CodeConflict},
	{Target: workspace.ErrIndexOutOfRange, Code: response.CodeBadRequest},
	{Target: workspace.ErrInvalidJSON, Code: response.CodeBadRequest},
	{Target: workspace.ErrUnrecognizedShape, Code: response.CodeBadRequest},
	{Target: workspace.ErrEmptyImport, Code: response.CodeBadRequest},
	{Target: handlershared.ErrBodyTooLarge, Code: response.CodeBadRequest},
	{Target: models.ErrMalformedOrder, Code: response.CodeBadRequest},
	{Target: models.ErrUnknownOrderField, Code: response.CodeBadRequest},
}
