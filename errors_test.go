package restddb

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseError(status int, apiErr error) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
			Err:      apiErr,
		},
	}
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, 409, Conflict.StatusCode())
	assert.Equal(t, "ServiceUnavailable", ServiceUnavailable.String())
	assert.True(t, Forbidden.IsValid())
	assert.False(t, ErrorType(418).IsValid())
	assert.Equal(t, "ErrorType(418)", ErrorType(418).String())
}

func TestStatusRangeOf(t *testing.T) {
	assert.Equal(t, StatusRangeClient, StatusRangeOf(400))
	assert.Equal(t, StatusRangeClient, StatusRangeOf(409))
	assert.Equal(t, StatusRangeServer, StatusRangeOf(500))
	assert.Equal(t, StatusRangeServer, StatusRangeOf(503))
	assert.Equal(t, "Server", StatusRangeServer.String())
}

func TestAsBackendError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "client fault",
			err:        &smithy.GenericAPIError{Code: "ValidationException", Message: "bad", Fault: smithy.FaultClient},
			wantCode:   "ValidationException",
			wantStatus: 400,
		},
		{
			name:       "server fault",
			err:        &smithy.GenericAPIError{Code: "InternalServerError", Message: "boom", Fault: smithy.FaultServer},
			wantCode:   "InternalServerError",
			wantStatus: 500,
		},
		{
			name:       "http status wins over fault",
			err:        responseError(503, &smithy.GenericAPIError{Code: "ServiceUnavailable", Message: "down", Fault: smithy.FaultClient}),
			wantCode:   "ServiceUnavailable",
			wantStatus: 503,
		},
		{
			name:       "conditional check failed",
			err:        fmt.Errorf("failed to put item: %w", &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}),
			wantCode:   ErrCodeConditionalCheckFailed,
			wantStatus: 400,
		},
		{
			name:       "plain error",
			err:        errors.New("connection reset"),
			wantCode:   ErrCodeInternalFailure,
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := AsBackendError(tt.err)
			require.NotNil(t, be)
			assert.Equal(t, tt.wantCode, be.Code)
			assert.Equal(t, tt.wantStatus, be.StatusCode)
			assert.ErrorIs(t, be, tt.err)
		})
	}
}

func TestAsBackendError_KeepsBackendError(t *testing.T) {
	be := NewBackendError(ErrCodeResourceNotFound, 400, "no table")
	got := AsBackendError(fmt.Errorf("describe: %w", be))

	assert.Same(t, be, got)
	assert.Nil(t, AsBackendError(nil))
}

func TestIsConditionFailed(t *testing.T) {
	assert.True(t, IsConditionFailed(ConditionFailed(nil)))
	assert.True(t, IsConditionFailed(&types.ConditionalCheckFailedException{}))
	assert.False(t, IsConditionFailed(errors.New("nope")))
	assert.False(t, IsConditionFailed(nil))
}

func TestBackendError_Error(t *testing.T) {
	be := NewBackendError(ErrCodeValidation, 400, "bad key")
	assert.Equal(t, "[ValidationException] bad key (status: 400)", be.Error())
}

func TestClassify(t *testing.T) {
	notFound := map[string]ErrorType{ErrCodeConditionalCheckFailed: NotFound}

	assert.Equal(t, ServiceUnavailable, Classify(NewBackendError("X", 503, ""), notFound))
	assert.Equal(t, InternalServerError, Classify(NewBackendError("X", 500, ""), notFound))
	assert.Equal(t, InternalServerError, Classify(NewBackendError("X", 504, ""), nil))
	assert.Equal(t, NotFound, Classify(ConditionFailed(nil), notFound))
	assert.Equal(t, BadRequest, Classify(ConditionFailed(nil), nil))
	assert.Equal(t, BadRequest, Classify(NewBackendError("X", 404, ""), notFound))
}
