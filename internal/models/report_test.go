package models

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportDetailedKeepsKeyOrder(t *testing.T) {
	f, ok := reflect.TypeOf(AssessmentReport{}).FieldByName("Detailed")
	require.True(t, ok)
	require.Contains(t, f.Tag.Get("gorm"), "type:json")
	require.NotContains(t, f.Tag.Get("gorm"), "jsonb")
}
