package domain

import (
	"github.com/brightfold/content-backend/internal/domain/content"
)

const (
	VersionStateDraft     = content.VersionStateDraft
	VersionStatePublished = content.VersionStatePublished
	VersionStateRetired   = content.VersionStateRetired

	TranslationStatusPending = content.TranslationStatusPending
	TranslationStatusReady   = content.TranslationStatusReady

	ChangeTypeAdded   = content.ChangeTypeAdded
	ChangeTypeUpdated = content.ChangeTypeUpdated
	ChangeTypeRemoved = content.ChangeTypeRemoved

	PackageStatePending  = content.PackageStatePending
	PackageStateBuilding = content.PackageStateBuilding
	PackageStateReady    = content.PackageStateReady
	PackageStateFailed   = content.PackageStateFailed
	PackageStateExpired  = content.PackageStateExpired

	CognitiveLoadLow    = content.CognitiveLoadLow
	CognitiveLoadMedium = content.CognitiveLoadMedium
	CognitiveLoadHigh   = content.CognitiveLoadHigh
)

type ContentObject = content.ContentObject
type ContentVersion = content.ContentVersion
type Translation = content.Translation
type ContentChangeRecord = content.ContentChangeRecord
type ContentPackage = content.ContentPackage

type ContentBlock = content.ContentBlock
type ContentPayload = content.ContentPayload
type ContentMetadata = content.ContentMetadata
type ContentOverride = content.ContentOverride
type MetadataOverride = content.MetadataOverride

type AccessibilityFlags = content.AccessibilityFlags
type AccessibilityOverride = content.AccessibilityOverride
type AccessibilityProfile = content.AccessibilityProfile
type CognitiveLoad = content.CognitiveLoad

type Manifest = content.Manifest
type ManifestItem = content.ManifestItem
