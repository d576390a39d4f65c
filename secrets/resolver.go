package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jongio/bwenv/bitwarden"
	"github.com/jongio/bwenv/logutil"
)

// ErrSecretNotFound is carried by warnings for keys without a matching item.
var ErrSecretNotFound = errors.New("secret not found")

var log = logutil.NewLogger("secrets")

// Resolution is the outcome for one template key.
type Resolution struct {
	Key   string
	Value string
	Found bool
}

// Warning captures a non-fatal resolution failure.
type Warning struct {
	Key   string
	Group string
	Err   error
}

func (w Warning) String() string {
	return fmt.Sprintf("secret %s not found in %s", w.Key, w.Group)
}

// Resolver looks up secret values for template keys.
type Resolver struct {
	client   *bitwarden.Client
	strategy GroupingStrategy
	groups   GroupingMap
}

// NewResolver creates a resolver that matches items using strategy and groups.
func NewResolver(client *bitwarden.Client, strategy GroupingStrategy, groups GroupingMap) *Resolver {
	return &Resolver{client: client, strategy: strategy, groups: groups}
}

// FetchSecret lists the vault items and returns the value of key under the
// "project/env" grouping. found is false when no item matches; err is only
// set when the vault query fails.
func (r *Resolver) FetchSecret(ctx context.Context, session bitwarden.Session, project, env, key string) (value string, found bool, err error) {
	items, err := r.client.ListItems(ctx, session)
	if err != nil {
		return "", false, fmt.Errorf("failed to list items: %w", err)
	}
	item, ok := Match(items, r.groups, r.strategy, GroupName(project, env), key)
	if !ok {
		return "", false, nil
	}
	return item.SecretValue(), true, nil
}

// ResolveAll resolves keys in order against a single item listing. Keys
// without a matching item resolve to an empty value and produce a Warning.
func (r *Resolver) ResolveAll(ctx context.Context, session bitwarden.Session, project, env string, keys []string) ([]Resolution, []Warning, error) {
	items, err := r.client.ListItems(ctx, session)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list items: %w", err)
	}

	group := GroupName(project, env)
	elog := log.WithEnvironment(env)
	elog.Debug("resolving keys", "group", group, "keys", len(keys), "items", len(items))

	resolutions := make([]Resolution, 0, len(keys))
	var warnings []Warning
	for _, key := range keys {
		item, ok := Match(items, r.groups, r.strategy, group, key)
		if !ok {
			warnings = append(warnings, Warning{Key: key, Group: group, Err: ErrSecretNotFound})
			resolutions = append(resolutions, Resolution{Key: key})
			continue
		}
		elog.Debug("matched item", "key", key, "item", item.ID)
		resolutions = append(resolutions, Resolution{Key: key, Value: item.SecretValue(), Found: true})
	}
	return resolutions, warnings, nil
}

// Match returns the first item named key that belongs to a grouping whose
// mapped name equals group. Items keep the order of the vault listing.
func Match(items []bitwarden.Item, groups GroupingMap, strategy GroupingStrategy, group, key string) (bitwarden.Item, bool) {
	for _, item := range items {
		if item.Name != key {
			continue
		}
		for _, id := range strategy.Memberships(item) {
			if name, ok := groups[id]; ok && name == group {
				return item, true
			}
		}
	}
	return bitwarden.Item{}, false
}
