package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tourbook/internal/domain"
)

type stubCategorySource struct {
	categories []domain.VehicleCategory
	err        error
}

func (s stubCategorySource) ListActive(ctx context.Context) ([]domain.VehicleCategory, error) {
	return s.categories, s.err
}

func categoryIDs(categories []domain.VehicleCategory) []string {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestVehicleCatalog_Suitable(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		passengers int
		want       []string
	}{
		{name: "zero passengers", passengers: 0, want: []string{}},
		{name: "negative passengers", passengers: -2, want: []string{}},
		{name: "small group", passengers: 3, want: []string{"cars"}},
		{name: "car upper bound", passengers: 4, want: []string{"cars"}},
		{name: "gap between car and van", passengers: 5, want: []string{}},
		{name: "van lower bound", passengers: 6, want: []string{"kdh_flat_roof", "kdh_high_roof", "other_vans"}},
		{name: "van upper bound", passengers: 10, want: []string{"kdh_flat_roof", "kdh_high_roof", "other_vans"}},
		{name: "high roof or bus", passengers: 12, want: []string{"kdh_high_roof", "mini_buses"}},
		{name: "bus upper bound", passengers: 25, want: []string{"mini_buses"}},
		{name: "too many", passengers: 999, want: []string{}},
	}

	catalog := DefaultVehicleCatalog()
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := categoryIDs(catalog.Suitable(tc.passengers))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestVehicleCatalog_Get(t *testing.T) {
	t.Parallel()

	catalog := DefaultVehicleCatalog()

	cat, ok := catalog.Get("kdh_high_roof")
	if !ok {
		t.Fatal("expected kdh_high_roof to exist")
	}
	if cat.SystemRatePerKm != 160 || cat.MaxPassengers != 12 {
		t.Errorf("unexpected category: %+v", cat)
	}

	if _, ok := catalog.Get("tuk_tuk"); ok {
		t.Error("expected unknown category to be missing")
	}
}

func TestVehicleCatalog_AllReturnsCopy(t *testing.T) {
	t.Parallel()

	catalog := DefaultVehicleCatalog()
	all := catalog.All()
	all[0].SystemRatePerKm = 1

	if cat, _ := catalog.Get(all[0].ID); cat.SystemRatePerKm == 1 {
		t.Error("expected catalog to be unaffected by caller mutation")
	}
	if again := catalog.All(); again[0].SystemRatePerKm == 1 {
		t.Error("expected ordered table to be unaffected by caller mutation")
	}
}

func TestNewVehicleCatalog_RejectsBadTables(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		categories []domain.VehicleCategory
	}{
		{name: "empty id", categories: []domain.VehicleCategory{{Name: "Nameless", MinPassengers: 1, MaxPassengers: 2}}},
		{name: "duplicate id", categories: []domain.VehicleCategory{
			{ID: "cars", MinPassengers: 1, MaxPassengers: 4},
			{ID: "cars", MinPassengers: 1, MaxPassengers: 4},
		}},
		{name: "inverted bounds", categories: []domain.VehicleCategory{{ID: "vans", MinPassengers: 10, MaxPassengers: 6}}},
		{name: "negative rate", categories: []domain.VehicleCategory{{ID: "vans", MinPassengers: 1, MaxPassengers: 6, SystemRatePerKm: -1}}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewVehicleCatalog(tc.categories); err == nil {
				t.Fatal("expected an error, got nil")
			}
		})
	}
}

func TestLoadVehicleCatalog(t *testing.T) {
	t.Parallel()

	stored := []domain.VehicleCategory{
		{ID: "tuk", Name: "Tuk Tuk", MinPassengers: 1, MaxPassengers: 2, SystemRatePerKm: 80},
	}

	testCases := []struct {
		name    string
		src     stubCategorySource
		wantIDs []string
	}{
		{name: "uses stored categories", src: stubCategorySource{categories: stored}, wantIDs: []string{"tuk"}},
		{name: "falls back on error", src: stubCategorySource{err: errors.New("connection refused")}, wantIDs: categoryIDs(domain.DefaultVehicleCategories())},
		{name: "falls back when empty", src: stubCategorySource{}, wantIDs: categoryIDs(domain.DefaultVehicleCategories())},
		{name: "falls back on invalid rows", src: stubCategorySource{categories: append(stored, stored...)}, wantIDs: categoryIDs(domain.DefaultVehicleCategories())},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := categoryIDs(LoadVehicleCatalog(context.Background(), tc.src).All())
			if !reflect.DeepEqual(got, tc.wantIDs) {
				t.Errorf("expected %v, got %v", tc.wantIDs, got)
			}
		})
	}
}
