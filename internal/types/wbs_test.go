package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWbs(t *testing.T) {
	tests := []struct {
		input   string
		want    WbsNumber
		wantErr bool
	}{
		{"1.1.0", WbsNumber{1, 1, 0}, false},
		{"2.12.3", WbsNumber{2, 12, 3}, false},
		{"0.0.0", WbsNumber{0, 0, 0}, false},
		{"1.1", WbsNumber{}, true},
		{"1.1.1.1", WbsNumber{}, true},
		{"a.1.0", WbsNumber{}, true},
		{"1.-1.0", WbsNumber{}, true},
		{"", WbsNumber{}, true},
	}

	for _, tt := range tests {
		got, err := ParseWbs(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			require.EqualError(t, err, tt.input+" is not a valid WBS #")
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		require.Equal(t, tt.want, got)
	}
}

func TestWbsNumberString(t *testing.T) {
	require.Equal(t, "1.12.0", WbsNumber{CarNumber: 1, ProjectNumber: 12}.String())
	require.Equal(t, "2.3.4", WbsNumber{CarNumber: 2, ProjectNumber: 3, WorkPackageNumber: 4}.String())
}

func TestWbsNumberShape(t *testing.T) {
	project := WbsNumber{CarNumber: 1, ProjectNumber: 2}
	require.True(t, project.IsProject())
	require.False(t, project.IsWorkPackage())

	wp := WbsNumber{CarNumber: 1, ProjectNumber: 2, WorkPackageNumber: 3}
	require.False(t, wp.IsProject())
	require.True(t, wp.IsWorkPackage())
}

func TestWbsNumberValidate(t *testing.T) {
	require.NoError(t, WbsNumber{1, 1, 0}.Validate())
	require.Error(t, WbsNumber{-1, 1, 0}.Validate())
	require.Error(t, WbsNumber{1, 1, -2}.Validate())
}

func TestParseWbsRoundTrip(t *testing.T) {
	wbs, err := ParseWbs("3.7.11")
	require.NoError(t, err)
	require.Equal(t, "3.7.11", wbs.String())
}
