package services

import (
	"context"
	"errors"

	"github.com/HTW-PMA/Kantino-App-grp12/models"
)

// stubNet is a Connectivity with fixed answers.
type stubNet struct {
	online          bool
	stale           bool
	criticallyStale bool
	updates         int
}

func (s *stubNet) Online(context.Context) bool { return s.online }
func (s *stubNet) UpdateLastConnection() error { s.updates++; return nil }
func (s *stubNet) IsStale() bool               { return s.stale }
func (s *stubNet) IsCriticallyStale() bool     { return s.criticallyStale }

// stubMenus is a MenuProvider backed by fixtures.
type stubMenus struct {
	canteens   []models.Canteen
	canteenErr error
	menus      map[string][]models.Meal
	menuErr    map[string]error
	additives  []models.Additive
	menuCalls  int
}

func (s *stubMenus) Canteens(context.Context) ([]models.Canteen, error) {
	return s.canteens, nil
}

func (s *stubMenus) CanteenByID(_ context.Context, id string) (*models.Canteen, error) {
	if s.canteenErr != nil {
		return nil, s.canteenErr
	}
	for i := range s.canteens {
		if s.canteens[i].ID == id {
			return &s.canteens[i], nil
		}
	}
	return nil, nil
}

func (s *stubMenus) MenuForDate(_ context.Context, canteenID, _ string) ([]models.Meal, error) {
	s.menuCalls++
	if err, ok := s.menuErr[canteenID]; ok {
		return nil, err
	}
	return s.menus[canteenID], nil
}

func (s *stubMenus) Additives(context.Context) ([]models.Additive, error) {
	return s.additives, nil
}

// stubAI records calls and returns a canned answer or error.
type stubAI struct {
	answer string
	err    error
	calls  int
}

func (s *stubAI) Answer(context.Context, string, string, models.UserProfile) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

var errBoom = errors.New("boom")
