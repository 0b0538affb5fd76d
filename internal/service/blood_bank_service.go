package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/donordarah/donor-darah-api/internal/geo"
	"github.com/donordarah/donor-darah-api/internal/model"
	"github.com/donordarah/donor-darah-api/internal/repository"
)

// BloodBankStore is the read side of the blood bank directory.
type BloodBankStore interface {
	List(ctx context.Context) ([]model.BloodBank, error)
	GetByID(ctx context.Context, id uint64) (model.BloodBank, error)
	Stock(ctx context.Context, bankID uint64) ([]model.BloodStock, error)
}

type BloodBankService struct {
	store BloodBankStore
}

func NewBloodBankService(store BloodBankStore) *BloodBankService {
	return &BloodBankService{store: store}
}

// List returns all banks. With a location every bank carries its distance
// in kilometres and the list is nearest first; equal distances keep
// storage order. Without one the storage order is returned untouched.
func (s *BloodBankService) List(ctx context.Context, loc *geo.Point) ([]model.BloodBank, error) {
	banks, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blood banks: %w", err)
	}
	if banks == nil {
		banks = []model.BloodBank{}
	}
	if loc == nil {
		return banks, nil
	}
	for i := range banks {
		d := loc.DistanceTo(geo.Point{Lat: banks[i].Latitude, Lng: banks[i].Longitude})
		banks[i].Distance = &d
	}
	sort.SliceStable(banks, func(i, j int) bool {
		return *banks[i].Distance < *banks[j].Distance
	})
	return banks, nil
}

// Get returns a bank together with its stock.
func (s *BloodBankService) Get(ctx context.Context, id uint64) (model.BloodBankDetail, error) {
	bank, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.BloodBankDetail{}, ErrNotFound
	}
	if err != nil {
		return model.BloodBankDetail{}, fmt.Errorf("get blood bank %d: %w", id, err)
	}
	stock, err := s.Stock(ctx, id)
	if err != nil {
		return model.BloodBankDetail{}, err
	}
	return model.BloodBankDetail{BloodBank: bank, BloodStock: stock}, nil
}

// Stock returns the stock rows of a bank ordered by blood type. An unknown
// bank has no rows, so the result is an empty list.
func (s *BloodBankService) Stock(ctx context.Context, id uint64) ([]model.BloodStock, error) {
	stock, err := s.store.Stock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("blood stock of bank %d: %w", id, err)
	}
	if stock == nil {
		stock = []model.BloodStock{}
	}
	return stock, nil
}
