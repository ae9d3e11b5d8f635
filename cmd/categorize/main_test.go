package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAPIKey has the default expected key length.
var testAPIKey = "sk-" + strings.Repeat("a", 48)

type cmdResult struct {
	err    error
	stdout string
	stderr string
}

func execute(t *testing.T, stdin string, args ...string) cmdResult {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return cmdResult{err: err, stdout: stdout.String(), stderr: stderr.String()}
}

func newChatServer(t *testing.T, reply string) *testutil.ChatServer {
	t.Helper()
	server := testutil.NewChatServer(t, reply)
	t.Setenv("CATEGORIZE_LLM_BASE_URL", server.URL)
	t.Setenv("CATEGORIZE_LLM_API_KEY", testAPIKey)
	return server
}

func TestVersionCmd(t *testing.T) {
	res := execute(t, "", "version")
	require.NoError(t, res.err)
	assert.Equal(t, "categorize dev\n", res.stdout)
}

func TestCategoriesCmd(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		res := execute(t, "", "categories")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "27 categories")
		assert.Contains(t, res.stdout, "online_service")
	})

	t.Run("custom", func(t *testing.T) {
		res := execute(t, "", "categories", "--category", "sport", "-c", "charity")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "29 categories")
		assert.Contains(t, res.stdout, "sport")
		assert.Contains(t, res.stdout, "custom")
	})

	t.Run("too many", func(t *testing.T) {
		res := execute(t, "", "categories", "-c", "a", "-c", "b", "-c", "c")
		assert.ErrorIs(t, res.err, common.ErrTooManyCategories)
	})
}

func TestInspectCmd(t *testing.T) {
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)

	t.Run("all rows", func(t *testing.T) {
		res := execute(t, "", "inspect", path)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "2 transactions")
		assert.Contains(t, res.stdout, "Adidas Store")
		assert.Contains(t, res.stdout, "62.3")
		assert.NotContains(t, res.stdout, "Label")
		assert.NotContains(t, res.stdout, "label_shopping")
	})

	t.Run("single row", func(t *testing.T) {
		res := execute(t, "", "inspect", path, "--row", "1")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "Shell")
		assert.NotContains(t, res.stdout, "Adidas Store")
	})

	t.Run("row out of range", func(t *testing.T) {
		res := execute(t, "", "inspect", path, "--row", "2")
		assert.ErrorIs(t, res.err, common.ErrIndexOutOfRange)
	})

	t.Run("missing file", func(t *testing.T) {
		res := execute(t, "", "inspect", filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, res.err)
	})
}

func TestPromptCmd(t *testing.T) {
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)

	t.Run("row", func(t *testing.T) {
		res := execute(t, "", "prompt", path, "--row", "0", "--category", "sport")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "COUNTERPARTY_NAME is Adidas Store MCC_CODE is 5655")
		assert.Contains(t, res.stdout, "AVG_SPEND_EUR is 45.0")
		assert.Contains(t, res.stdout, "is like 'Adidas' as sport")
	})

	t.Run("raw", func(t *testing.T) {
		res := execute(t, "", "prompt", "--raw")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "{counterparty_name}")
		assert.NotContains(t, res.stdout, "is like")
	})

	t.Run("file required", func(t *testing.T) {
		res := execute(t, "", "prompt")
		assert.ErrorIs(t, res.err, common.ErrInvalidConfig)
	})
}

func TestClassifyCmd_JSON(t *testing.T) {
	service := newChatServer(t, "Category Prediction: sport\nBackup Prediction: shopping")
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)

	res := execute(t, "", "classify", path, "--row", "0", "-c", "sport", "--output", "json")
	require.NoError(t, res.err)

	var out classifyOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, 0, out.Row)
	assert.Equal(t, "Adidas Store", out.CounterpartyName)
	assert.Equal(t, "sport", out.PrimaryCategory)
	assert.Equal(t, "shopping", out.BackupCategory)

	requests := service.Requests()
	require.Len(t, requests, 1)
	assert.Len(t, requests[0].Messages, 3)
	assert.Equal(t, "Bearer "+testAPIKey, requests[0].Authorization)
	assert.Equal(t, "gpt-4-1106-preview", requests[0].Model)
	assert.InDelta(t, 0.1, requests[0].Temperature, 1e-9)
}

func TestClassifyCmd_Table(t *testing.T) {
	newChatServer(t, "Category Prediction: gas_station\nBackup Prediction: car")
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)

	res := execute(t, "", "classify", path, "--row", "1", "--show-prompt")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Category Prediction")
	assert.Contains(t, res.stdout, "Backup Prediction")
	assert.Contains(t, res.stdout, "gas_station")
	assert.Contains(t, res.stderr, "COUNTERPARTY_NAME is Shell")
}

func TestClassifyCmd_RowFromInput(t *testing.T) {
	service := newChatServer(t, "Category Prediction: gas_station\nBackup Prediction: car")
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)

	res := execute(t, "7\n1\n", "classify", path, "-o", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "outside 0-1")
	assert.Contains(t, res.stdout, `"counterparty_name": "Shell"`)
	requests := service.Requests()
	require.Len(t, requests, 1)
	assert.Len(t, requests[0].Messages, 2)
}

func TestClassifyCmd_Errors(t *testing.T) {
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)

	tests := []struct {
		wantErr error
		name    string
		reply   string
		key     string
		args    []string
		calls   int
	}{
		{
			name:    "short credential",
			key:     "sk-short",
			args:    []string{"--row", "0"},
			wantErr: common.ErrInvalidCredential,
		},
		{
			name:    "temperature out of range",
			args:    []string{"--row", "0", "--temperature", "1.5"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "unknown output",
			args:    []string{"--row", "0", "--output", "yaml"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "row out of range",
			args:    []string{"--row", "5"},
			wantErr: common.ErrIndexOutOfRange,
		},
		{
			name:    "malformed reply",
			reply:   "I think this is shopping",
			args:    []string{"--row", "0"},
			wantErr: common.ErrMalformedResponse,
			calls:   1,
		},
		{
			name:    "strict rejects unknown category",
			reply:   "Category Prediction: footwear\nBackup Prediction: shopping",
			args:    []string{"--row", "0", "--strict"},
			wantErr: common.ErrUnknownCategory,
			calls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newChatServer(t, tt.reply)
			if tt.key != "" {
				t.Setenv("CATEGORIZE_LLM_API_KEY", tt.key)
			}

			res := execute(t, "", append([]string{"classify", path}, tt.args...)...)
			assert.ErrorIs(t, res.err, tt.wantErr)
			assert.Len(t, service.Requests(), tt.calls)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestClassifyCmd_Flags(t *testing.T) {
	service := newChatServer(t, "Category Prediction: shopping\nBackup Prediction: sport")
	path := testutil.WriteXLSX(t, [][]string{
		{"COUNTERPARTY_NAME", "MCC_CODE", "OPERATION_TYPE", "AVG_SPEND_EUR"},
		{"Zalando", "5691", "purchase", "89.99"},
	})

	res := execute(t, "", "classify", path, "--row", "0", "--temperature", "0.5", "--model", "gpt-4o", "-o", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"counterparty_name": "Zalando"`)

	requests := service.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "gpt-4o", requests[0].Model)
	assert.InDelta(t, 0.5, requests[0].Temperature, 1e-9)
	assert.Contains(t, requests[0].Messages[1].Content, "AVG_SPEND_EUR is 89.99")
}

func TestClassifyCmd_RetriesServerErrors(t *testing.T) {
	service := newChatServer(t, "")
	service.SetStatus(http.StatusServiceUnavailable)
	t.Setenv("CATEGORIZE_LLM_MAX_RETRIES", "2")
	t.Setenv("CATEGORIZE_LLM_RETRY_DELAY", "1ms")
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)

	res := execute(t, "", "classify", path, "--row", "0")
	require.ErrorIs(t, res.err, common.ErrMaxRetries)
	assert.Len(t, service.Requests(), 2)
}

func TestClassifyCmd_LenientUnknownCategory(t *testing.T) {
	newChatServer(t, "Category Prediction: footwear\nBackup Prediction: shopping")
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)

	res := execute(t, "", "classify", path, "--row", "0", "-o", "json", "--log-level", "warn")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"category_prediction": "footwear"`)
	assert.Contains(t, res.stderr, "outside the taxonomy")
}

func TestModelSettingsOnlyCheckedWhenCalling(t *testing.T) {
	path := testutil.WriteFile(t, "transactions.csv", testutil.SampleCSV)
	t.Setenv("CATEGORIZE_LLM_TEMPERATURE", "5")

	res := execute(t, "", "inspect", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Adidas Store")

	res = execute(t, "", "prompt", "--raw")
	require.NoError(t, res.err)

	res = execute(t, "", "prompt", path, "--row", "1")
	require.NoError(t, res.err)

	newChatServer(t, "Category Prediction: gas_station\nBackup Prediction: car")
	res = execute(t, "", "classify", path, "--row", "1")
	assert.ErrorIs(t, res.err, common.ErrInvalidConfig)

	t.Setenv("CATEGORIZE_DATASET_DELIMITER", ";;")
	res = execute(t, "", "inspect", path)
	assert.ErrorIs(t, res.err, common.ErrInvalidConfig)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, common.ErrInvalidCredential)
	assert.Contains(t, buf.String(), "Please enter the correct credentials")
	assert.Contains(t, buf.String(), "invalid API credential")

	buf.Reset()
	printError(&buf, common.NewUserError("Pick a file first", common.ErrDataFormat))
	assert.Contains(t, buf.String(), "Pick a file first")
	assert.NotContains(t, buf.String(), "invalid data format")
}
