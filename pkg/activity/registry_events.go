package activity

import (
	"strings"
	"time"
)

// ScopeContext captures scope metadata associated with a registry snapshot.
type ScopeContext struct {
	Name       string
	Label      string
	Priority   int
	Metadata   map[string]any
	SnapshotID string
}

// RegistryEventInput describes the common fields for registry lifecycle and
// lookup events.
type RegistryEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	Tag            string
	Found          bool
	FallbackKind   string
	OldValue       any
	NewValue       any
	Scope          ScopeContext
	OccurredAt     time.Time
}

// BuildRegistryRegisteredEvent constructs a normalized activity event for a
// tag registration.
func BuildRegistryRegisteredEvent(input RegistryEventInput) Event {
	return buildRegistryEvent("registry.registered", "registry", input)
}

// BuildRegistryHitEvent constructs a normalized activity event for a lookup
// answered by the registry itself.
func BuildRegistryHitEvent(input RegistryEventInput) Event {
	return buildRegistryEvent("registry.hit", "registry", input)
}

// BuildRegistryFallbackEvent constructs a normalized activity event for a
// lookup resolved through a fallback.
func BuildRegistryFallbackEvent(input RegistryEventInput) Event {
	return buildRegistryEvent("registry.fallback", "registry", input)
}

// BuildRegistryLayerAppliedEvent constructs an activity event describing a
// layer application.
func BuildRegistryLayerAppliedEvent(input RegistryEventInput) Event {
	return buildRegistryEvent("registry.layer.applied", "registry.layer", input)
}

func buildRegistryEvent(verb, objectType string, input RegistryEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Tag != "" {
		metadata = ensureMetadata(metadata)
		metadata["tag"] = input.Tag
		metadata["found"] = input.Found
	}
	if input.FallbackKind != "" {
		metadata = ensureMetadata(metadata)
		metadata["fallback_kind"] = input.FallbackKind
	}
	if input.Scope.Name != "" {
		metadata = ensureMetadata(metadata)
		metadata["scope_name"] = input.Scope.Name
		metadata["scope_priority"] = input.Scope.Priority
		if input.Scope.Label != "" {
			metadata["scope_label"] = input.Scope.Label
		}
		if len(input.Scope.Metadata) > 0 {
			metadata["scope_metadata"] = cloneMap(input.Scope.Metadata)
		}
	}
	if input.Scope.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.Scope.SnapshotID
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Tag)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.Scope.SnapshotID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
