// internal/chat/classifier/classifier_test.go
package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"wealth-assistant/internal/common/logger"
)

type fakeCompleter struct {
	output string
	err    error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return f.output, f.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		err         error
		granularity string
		expected    Label
	}{
		{"user query", "USER_QUERY", nil, GranularityThreeWay, LabelUserQuery},
		{"general short", "GENERAL_SHORT", nil, GranularityThreeWay, LabelGeneralShort},
		{"general long", "GENERAL_LONG", nil, GranularityThreeWay, LabelGeneralLong},
		{"whitespace trimmed", "  USER_QUERY\n", nil, GranularityThreeWay, LabelUserQuery},
		{"lowercase output", "user_query", nil, GranularityThreeWay, LabelUserQuery},
		{"unknown label defaults", "SOMETHING_ELSE", nil, GranularityThreeWay, LabelGeneralLong},
		{"empty output defaults", "", nil, GranularityThreeWay, LabelGeneralLong},
		{"completion failure defaults", "", errors.New("boom"), GranularityThreeWay, LabelGeneralLong},
		{"two way keeps user query", "USER_QUERY", nil, GranularityTwoWay, LabelUserQuery},
		{"two way collapses general short", "GENERAL_SHORT", nil, GranularityTwoWay, LabelGeneralLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&fakeCompleter{output: tt.output, err: tt.err}, tt.granularity, logger.NewNoOpLogger())
			assert.Equal(t, tt.expected, c.Classify(context.Background(), "any message"))
		})
	}
}
