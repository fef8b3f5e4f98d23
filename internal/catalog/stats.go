package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"acredge.in/internal/docstore"
)

// KindStats summarizes one collection by lifecycle status.
type KindStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Disabled int `json:"disabled"`
}

// Stats is the dashboard roll-up across every kind. Amenities carry no
// status, so only their total is reported.
type Stats struct {
	Developers KindStats `json:"developers"`
	Projects   KindStats `json:"projects"`
	Towers     KindStats `json:"towers"`
	Series     KindStats `json:"series"`
	Amenities  KindStats `json:"amenities"`
}

type statusOnly struct {
	Status string `firestore:"status" json:"status"`
}

func (s *Service) kindStats(ctx context.Context, collection string) (KindStats, error) {
	docs, err := s.docs.List(ctx, collection)
	if err != nil {
		return KindStats{}, err
	}
	ks := KindStats{Total: len(docs)}
	for _, doc := range docs {
		var st statusOnly
		if err := doc.DataTo(&st); err != nil {
			return KindStats{}, err
		}
		if st.Status == StatusDisable {
			ks.Disabled++
		} else {
			ks.Active++
		}
	}
	return ks, nil
}

// StatsFor returns the roll-up for one collection. Amenities carry no
// status and are served by a plain count.
func (s *Service) StatsFor(ctx context.Context, collection string) (KindStats, error) {
	if collection == docstore.Amenities {
		n, err := s.docs.Count(ctx, collection)
		if err != nil {
			return KindStats{}, err
		}
		return KindStats{Total: n, Active: n}, nil
	}
	return s.kindStats(ctx, collection)
}

// DashboardStats gathers the per-kind counts concurrently.
func (s *Service) DashboardStats(ctx context.Context) (Stats, error) {
	var stats Stats
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		stats.Developers, err = s.kindStats(ctx, docstore.Developers)
		return err
	})
	group.Go(func() (err error) {
		stats.Projects, err = s.kindStats(ctx, docstore.Projects)
		return err
	})
	group.Go(func() (err error) {
		stats.Towers, err = s.kindStats(ctx, docstore.Towers)
		return err
	})
	group.Go(func() (err error) {
		stats.Series, err = s.kindStats(ctx, docstore.Series)
		return err
	})
	group.Go(func() (err error) {
		n, err := s.docs.Count(ctx, docstore.Amenities)
		stats.Amenities = KindStats{Total: n, Active: n}
		return err
	})
	if err := group.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
