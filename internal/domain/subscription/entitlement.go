package subscription

import "time"

// ContentTier is the access level required by a piece of content, or granted
// by a package. The ordering is free < basic < premium.
type ContentTier string

const (
	TierFree    ContentTier = "free"
	TierBasic   ContentTier = "basic"
	TierPremium ContentTier = "premium"
)

func (t ContentTier) IsValid() bool {
	return t == TierFree || t == TierBasic || t == TierPremium
}

var tierRank = map[ContentTier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
}

// Satisfies reports whether a subscription of tier t can access content that
// requires required.
func (t ContentTier) Satisfies(required ContentTier) bool {
	return tierRank[t] >= tierRank[required]
}

func tierForPackageType(pt PackageType) ContentTier {
	switch pt {
	case PackagePremium:
		return TierPremium
	case PackageBasic, PackageStandard:
		return TierBasic
	default:
		return TierFree
	}
}

// TierForSnapshot returns the content tier the snapshot's package grants.
// A nil snapshot grants the free tier.
func TierForSnapshot(snap *Snapshot) ContentTier {
	if snap == nil {
		return TierFree
	}
	return tierForPackageType(snap.PackageType)
}

// Snapshot is the denormalized subscription state embedded on the user record
// for fast entitlement reads. It is a cache of the authoritative Subscription
// and is rebuilt on every mutation.
type Snapshot struct {
	PackageID   uint
	PackageType PackageType
	Status      Status
	StartDate   time.Time
	EndDate     time.Time
}

// HasAccess is the pure entitlement predicate: may a user with snapshot snap
// access content requiring the given tier at time t? Free content is always
// accessible; everything else needs an unexpired active subscription whose
// package tier is at least the required tier. Callers must re-evaluate on
// every content-serving read; the result is never cached across requests.
func HasAccess(snap *Snapshot, required ContentTier, t time.Time) bool {
	if required == TierFree || required == "" {
		return true
	}
	if snap == nil {
		return false
	}
	if snap.Status != StatusActive || !t.Before(snap.EndDate) {
		return false
	}
	return tierForPackageType(snap.PackageType).Satisfies(required)
}

// SnapshotFrom builds the denormalized snapshot for a subscription and its
// package. Returns nil for a nil subscription (user never subscribed).
func SnapshotFrom(sub *Subscription, pkg *Package) *Snapshot {
	if sub == nil || pkg == nil {
		return nil
	}
	return &Snapshot{
		PackageID:   sub.PackageID(),
		PackageType: pkg.Type(),
		Status:      sub.EffectiveStatus(time.Now().UTC()),
		StartDate:   sub.StartDate(),
		EndDate:     sub.EndDate(),
	}
}
