package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a simple fake implementing ssmAPI for tests.
type fakeAPI struct {
	batchOut *ssm.GetParametersOutput
	batchErr error
	lastBulk *ssm.GetParametersInput
}

func (f *fakeAPI) GetParameters(_ context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.lastBulk = in
	return f.batchOut, f.batchErr
}

func strPtr(s string) *string { return &s }

func TestGetParameters_HappyPath(t *testing.T) {
	api := &fakeAPI{batchOut: &ssm.GetParametersOutput{Parameters: []types.Parameter{
		{Name: strPtr("/app/a"), Value: strPtr("1")},
		{Name: strPtr("/app/b"), Value: strPtr("2")},
	}}}
	client, err := New(api)
	require.NoError(t, err)

	got, err := client.GetParameters(context.Background(), "/app/a", "/app/b")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"/app/a": "1", "/app/b": "2"}, got)
	require.Equal(t, []string{"/app/a", "/app/b"}, api.lastBulk.Names)
}

func TestGetParameters_ReportsMissing(t *testing.T) {
	api := &fakeAPI{batchOut: &ssm.GetParametersOutput{
		Parameters:        []types.Parameter{{Name: strPtr("/app/a"), Value: strPtr("1")}},
		InvalidParameters: []string{"/app/b"},
	}}
	client, err := New(api)
	require.NoError(t, err)

	_, err = client.GetParameters(context.Background(), "/app/a", "/app/b")
	require.ErrorContains(t, err, "not found: /app/b")
}

func TestGetParameters_ClientNotInitialized(t *testing.T) {
	_, err := (&Client{}).GetParameters(context.Background(), "p")
	require.ErrorContains(t, err, "not initialized")
}

func TestGetParameters_Errors(t *testing.T) {
	client, err := New(&fakeAPI{batchErr: errors.New("throttled")})
	require.NoError(t, err)

	_, err = client.GetParameters(context.Background(), "/app/a")
	require.ErrorContains(t, err, "throttled")

	_, err = client.GetParameters(context.Background())
	require.ErrorContains(t, err, "at least one")

	_, err = client.GetParameters(context.Background(), "/app/a", " ")
	require.ErrorContains(t, err, "required")
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.ErrorContains(t, err, "must not be nil")
}
