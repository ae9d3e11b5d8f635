package llm

import (
	"testing"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.ClassificationResult
		wantErr bool
	}{
		{
			name:  "exact contract",
			input: "Category Prediction: tax\nBackup Prediction: fees",
			want:  model.ClassificationResult{PrimaryCategory: "tax", BackupCategory: "fees"},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  Category Prediction:   restaurant_and_bar  \nBackup Prediction: food_and_grocery \n",
			want:  model.ClassificationResult{PrimaryCategory: "restaurant_and_bar", BackupCategory: "food_and_grocery"},
		},
		{
			name:  "windows line endings",
			input: "Category Prediction: atm\r\nBackup Prediction: fees\r\n",
			want:  model.ClassificationResult{PrimaryCategory: "atm", BackupCategory: "fees"},
		},
		{
			name:  "only the first separator splits",
			input: "Category Prediction: office: supply\nBackup Prediction: other_expense",
			want:  model.ClassificationResult{PrimaryCategory: "office: supply", BackupCategory: "other_expense"},
		},
		{
			name:  "extra lines are ignored",
			input: "Category Prediction: sportswear\nBackup Prediction: sales\nI hope this helps!",
			want:  model.ClassificationResult{PrimaryCategory: "sportswear", BackupCategory: "sales"},
		},
		{
			name:    "missing separators",
			input:   "tax\nfees",
			wantErr: true,
		},
		{
			name:    "single line",
			input:   "Category Prediction: tax",
			wantErr: true,
		},
		{
			name:    "empty reply",
			input:   "",
			wantErr: true,
		},
		{
			name:    "second line lacks separator",
			input:   "Category Prediction: tax\nBackup Prediction:fees",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
