package models_test

import (
	"testing"

	"github.com/iitconnect/iitconnect/pkg/models"
)

func TestReputationScore(t *testing.T) {
	cases := []struct {
		name                    string
		upvotes, posts, answers int64
		want                    int64
		badge                   models.Badge
	}{
		{"zero", 0, 0, 0, 0, models.BadgeFresher},
		{"typical", 10, 4, 3, 49, models.BadgeFresher},
		{"heavy upvotes", 260, 4, 3, 549, models.BadgeProfessor},
		{"contributor boundary", 25, 0, 1, 53, models.BadgeContributor},
		{"scholar", 100, 1, 0, 205, models.BadgeScholar},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.ReputationScore(tc.upvotes, tc.posts, tc.answers)
			if got != tc.want {
				t.Fatalf("ReputationScore(%d,%d,%d) = %d, want %d", tc.upvotes, tc.posts, tc.answers, got, tc.want)
			}
			if b := models.BadgeFor(got); b != tc.badge {
				t.Fatalf("BadgeFor(%d) = %s, want %s", got, b, tc.badge)
			}
		})
	}
}

func TestBadgeThresholdsAreExclusive(t *testing.T) {
	// each threshold value itself stays in the lower tier
	for _, tc := range []struct {
		rep  int64
		want models.Badge
	}{
		{50, models.BadgeFresher},
		{51, models.BadgeContributor},
		{200, models.BadgeContributor},
		{201, models.BadgeScholar},
		{500, models.BadgeScholar},
		{501, models.BadgeProfessor},
	} {
		if got := models.BadgeFor(tc.rep); got != tc.want {
			t.Fatalf("BadgeFor(%d) = %s, want %s", tc.rep, got, tc.want)
		}
	}
}
