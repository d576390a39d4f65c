package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/bwenv/bitwarden"
)

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"collection", GroupingCollection, false},
		{"Collections", GroupingCollection, false},
		{"", GroupingCollection, false},
		{"folder", GroupingFolder, false},
		{"folders", GroupingFolder, false},
		{"tag", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := StrategyFor(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownGrouping))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name())
		})
	}
}

func TestMemberships(t *testing.T) {
	folder := "f1"
	item := bitwarden.Item{CollectionIDs: []string{"c1", "c2"}, FolderID: &folder}

	assert.Equal(t, []string{"c1", "c2"}, CollectionStrategy{}.Memberships(item))
	assert.Equal(t, []string{"f1"}, FolderStrategy{}.Memberships(item))
	assert.Nil(t, FolderStrategy{}.Memberships(bitwarden.Item{}))
}

func TestBuildGroupingMap(t *testing.T) {
	t.Run("collections", func(t *testing.T) {
		runner := bitwarden.NewMockRunner().On("list collections --session tok", bitwarden.MockResponse{
			Stdout: `[{"id":"c1","name":"proj/dev"},{"id":"c2","name":"proj/prod"}]`,
		})

		m, err := BuildGroupingMap(context.Background(), bitwarden.NewClient(runner), "tok", CollectionStrategy{})
		require.NoError(t, err)
		assert.Equal(t, GroupingMap{"c1": "proj/dev", "c2": "proj/prod"}, m)
		assert.Len(t, runner.Calls(), 1)
	})

	t.Run("folders skip entries without id", func(t *testing.T) {
		runner := bitwarden.NewMockRunner().On("list folders --session tok", bitwarden.MockResponse{
			Stdout: `[{"id":"f1","name":"proj/dev"},{"id":null,"name":"No Folder"}]`,
		})

		m, err := BuildGroupingMap(context.Background(), bitwarden.NewClient(runner), "tok", FolderStrategy{})
		require.NoError(t, err)
		assert.Equal(t, GroupingMap{"f1": "proj/dev"}, m)
	})

	t.Run("vault failure", func(t *testing.T) {
		runner := bitwarden.NewMockRunner().On("list collections --session tok", bitwarden.MockResponse{ExitCode: 1})

		_, err := BuildGroupingMap(context.Background(), bitwarden.NewClient(runner), "tok", CollectionStrategy{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, bitwarden.ErrCommandFailed))
		assert.Contains(t, err.Error(), "failed to list collections")
	})
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "proj/dev", GroupName("proj", "dev"))
}
