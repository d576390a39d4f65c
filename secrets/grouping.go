// Package secrets maps template variable names to vault items scoped by a
// "project/environment" grouping.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jongio/bwenv/bitwarden"
)

// Grouping strategy names accepted by StrategyFor.
const (
	GroupingCollection = "collection"
	GroupingFolder     = "folder"
)

// ErrUnknownGrouping indicates an unsupported grouping strategy name.
var ErrUnknownGrouping = errors.New("unknown grouping strategy")

// GroupingMap maps a grouping ID (collection or folder) to its name.
type GroupingMap map[string]string

// GroupingStrategy decides which vault groupings scope an item.
type GroupingStrategy interface {
	// Name returns the strategy name, e.g. "collection".
	Name() string
	// List returns every grouping visible to the session.
	List(ctx context.Context, client *bitwarden.Client, session bitwarden.Session) ([]bitwarden.Group, error)
	// Memberships returns the grouping IDs the item belongs to.
	Memberships(item bitwarden.Item) []string
}

// CollectionStrategy scopes items by organization collections.
type CollectionStrategy struct{}

// Name implements GroupingStrategy.
func (CollectionStrategy) Name() string { return GroupingCollection }

// List implements GroupingStrategy.
func (CollectionStrategy) List(ctx context.Context, client *bitwarden.Client, session bitwarden.Session) ([]bitwarden.Group, error) {
	return client.ListCollections(ctx, session)
}

// Memberships implements GroupingStrategy.
func (CollectionStrategy) Memberships(item bitwarden.Item) []string {
	return item.CollectionIDs
}

// FolderStrategy scopes items by personal folders.
type FolderStrategy struct{}

// Name implements GroupingStrategy.
func (FolderStrategy) Name() string { return GroupingFolder }

// List implements GroupingStrategy.
func (FolderStrategy) List(ctx context.Context, client *bitwarden.Client, session bitwarden.Session) ([]bitwarden.Group, error) {
	return client.ListFolders(ctx, session)
}

// Memberships implements GroupingStrategy.
func (FolderStrategy) Memberships(item bitwarden.Item) []string {
	if item.FolderID == nil {
		return nil
	}
	return []string{*item.FolderID}
}

// StrategyFor returns the strategy registered under name.
func StrategyFor(name string) (GroupingStrategy, error) {
	switch strings.ToLower(name) {
	case GroupingCollection, "collections", "":
		return CollectionStrategy{}, nil
	case GroupingFolder, "folders":
		return FolderStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid options: %s, %s)", ErrUnknownGrouping, name, GroupingCollection, GroupingFolder)
	}
}

// BuildGroupingMap lists the strategy's groupings once and maps ID to name.
// Groupings without an ID are skipped.
func BuildGroupingMap(ctx context.Context, client *bitwarden.Client, session bitwarden.Session, strategy GroupingStrategy) (GroupingMap, error) {
	groups, err := strategy.List(ctx, client, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", strategy.Name(), err)
	}

	m := make(GroupingMap, len(groups))
	for _, g := range groups {
		if g.ID == nil || *g.ID == "" {
			continue
		}
		m[*g.ID] = g.Name
	}
	return m, nil
}

// GroupName returns the grouping name that scopes a project's environment.
func GroupName(project, env string) string {
	return project + "/" + env
}
