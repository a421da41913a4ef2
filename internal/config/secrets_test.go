package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	output *secretsmanager.GetSecretValueOutput
	err    error
	asked  string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.ToString(params.SecretId)
	return f.output, f.err
}

func TestLoadSecretsWithClientOverlay(t *testing.T) {
	client := &fakeSecrets{output: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"s3cret","feed_api_key":"feed-key"}`),
	}}
	cfg := &Config{}
	cfg.Database.Password = "old"
	cfg.MLService.URL = "http://keep.me"

	require.NoError(t, LoadSecretsWithClient(context.Background(), cfg, client, "race-advisor/prod"))

	assert.Equal(t, "race-advisor/prod", client.asked)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "feed-key", cfg.DataSources.Feed.APIKey)
	assert.Equal(t, "http://keep.me", cfg.MLService.URL)
}

func TestLoadSecretsBinary(t *testing.T) {
	client := &fakeSecrets{output: &secretsmanager.GetSecretValueOutput{
		SecretBinary: []byte(`{"ml_service_url":"http://ml:8000"}`),
	}}
	cfg := &Config{}

	require.NoError(t, LoadSecretsWithClient(context.Background(), cfg, client, "s"))
	assert.Equal(t, "http://ml:8000", cfg.MLService.URL)
}

func TestLoadSecretsErrors(t *testing.T) {
	cfg := &Config{}

	err := LoadSecretsWithClient(context.Background(), cfg, &fakeSecrets{err: errors.New("denied")}, "s")
	assert.ErrorContains(t, err, "denied")

	err = LoadSecretsWithClient(context.Background(), cfg, &fakeSecrets{output: &secretsmanager.GetSecretValueOutput{}}, "s")
	assert.ErrorIs(t, err, errNoSecretDataFound)

	err = LoadSecretsWithClient(context.Background(), cfg, &fakeSecrets{output: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String("not json"),
	}}, "s")
	assert.ErrorContains(t, err, "failed to parse secret JSON")
}
