package service

import (
	"context"
	"sort"
	"sync"

	"github.com/donordarah/donor-darah-api/internal/model"
	"github.com/donordarah/donor-darah-api/internal/queue"
	"github.com/donordarah/donor-darah-api/internal/repository"
)

type fakeBanks struct {
	banks []model.BloodBank
	stock map[uint64][]model.BloodStock
}

func (f *fakeBanks) List(context.Context) ([]model.BloodBank, error) {
	return append([]model.BloodBank(nil), f.banks...), nil
}

func (f *fakeBanks) GetByID(_ context.Context, id uint64) (model.BloodBank, error) {
	for _, b := range f.banks {
		if b.ID == id {
			return b, nil
		}
	}
	return model.BloodBank{}, repository.ErrNotFound
}

func (f *fakeBanks) Stock(_ context.Context, id uint64) ([]model.BloodStock, error) {
	return f.stock[id], nil
}

// fakeDonations mimics DonationRepo including its conditional writes.
type fakeDonations struct {
	mu      sync.Mutex
	rows    map[uint64]model.Donation
	nextID  uint64
	calls   int
	created int
	banks   map[uint64]string
}

func newFakeDonations() *fakeDonations {
	return &fakeDonations{rows: map[uint64]model.Donation{}, nextID: 1, banks: map[uint64]string{1: "PMI Jakarta"}}
}

func (f *fakeDonations) Create(_ context.Context, d *model.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.banks[d.BloodBankID]; !ok {
		return repository.ErrUnknownReference
	}
	d.ID = f.nextID
	f.nextID++
	f.rows[d.ID] = *d
	f.created++
	return nil
}

func (f *fakeDonations) put(d model.Donation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID >= f.nextID {
		f.nextID = d.ID + 1
	}
	f.rows[d.ID] = d
}

func (f *fakeDonations) GetByID(_ context.Context, id uint64) (model.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.rows[id]
	if !ok {
		return model.Donation{}, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDonations) GetView(ctx context.Context, id uint64) (model.DonationView, error) {
	d, err := f.GetByID(ctx, id)
	if err != nil {
		return model.DonationView{}, err
	}
	return model.DonationView{Donation: d, BloodBankName: f.banks[d.BloodBankID]}, nil
}

func (f *fakeDonations) ListByUser(_ context.Context, userID uint64) ([]model.DonationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DonationView
	for _, d := range f.rows {
		if d.UserID == userID {
			out = append(out, model.DonationView{Donation: d, BloodBankName: f.banks[d.BloodBankID]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DonationDate.Equal(out[j].DonationDate.Time) {
			return out[i].DonationDate.After(out[j].DonationDate.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeDonations) UpdateStatus(_ context.Context, id uint64, from, to model.DonationStatus, notes *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	d, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if d.Status != from {
		return repository.ErrStatusMismatch
	}
	d.Status = to
	if notes != nil {
		d.Notes = notes
	}
	f.rows[id] = d
	return nil
}

func (f *fakeDonations) Delete(_ context.Context, id uint64, allowed []model.DonationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	d, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, s := range allowed {
		if d.Status == s {
			delete(f.rows, id)
			return nil
		}
	}
	return repository.ErrStatusMismatch
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.DonationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.DonationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fakeUsers struct {
	byID   map[uint64]model.User
	nextID uint64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uint64]model.User{}, nextID: 1} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uint64, name, phone, bloodType, address string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name, u.Phone, u.BloodType, u.Address = name, phone, bloodType, address
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	f.byID[id] = u
	return nil
}
