package fake

import (
	"context"
	"sort"
	"sync"
	"time"

	"roomsense/internal/domain/ban"
	"roomsense/internal/domain/reservation"
	"roomsense/internal/domain/room"
	"roomsense/internal/domain/user"
	"roomsense/internal/infra"
	"roomsense/internal/infra/db"
	"roomsense/internal/usecase/queries"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store is an in-memory stand-in for the persistence layer. A UoW built
// on it applies writes under a single mutex and restores a snapshot when
// the transaction function fails, mirroring rollback.
type Store struct {
	mu           sync.Mutex
	Users        map[uuid.UUID]shared.UserSnapshot
	Rooms        map[uuid.UUID]shared.RoomSnapshot
	Reservations map[uuid.UUID]shared.ReservationSnapshot
	Bans         map[uuid.UUID]shared.BanSnapshot // keyed by user id
	Idempotency  map[string]shared.IdempotencyRecord
	Jobs         []Job
	Readings     []shared.SensorReadingRecord
}

type Job struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

func NewStore() *Store {
	return &Store{
		Users:        make(map[uuid.UUID]shared.UserSnapshot),
		Rooms:        make(map[uuid.UUID]shared.RoomSnapshot),
		Reservations: make(map[uuid.UUID]shared.ReservationSnapshot),
		Bans:         make(map[uuid.UUID]shared.BanSnapshot),
		Idempotency:  make(map[string]shared.IdempotencyRecord),
	}
}

func (s *Store) AddUser(snap shared.UserSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users[snap.ID] = snap
}

func (s *Store) AddRoom(snap shared.RoomSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rooms[snap.ID] = snap
}

func (s *Store) AddReservation(snap shared.ReservationSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reservations[snap.ID] = snap
}

func (s *Store) AddBan(snap shared.BanSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Bans[snap.UserID] = snap
}

func (s *Store) AddIdempotency(rec shared.IdempotencyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Idempotency[idemKey(rec.Key, rec.UserID)] = rec
}

func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Reservations)
}

func (s *Store) JobTopics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	topics := make([]string, 0, len(s.Jobs))
	for _, j := range s.Jobs {
		topics = append(topics, j.Topic)
	}
	return topics
}

func idemKey(key, userID uuid.UUID) string {
	return key.String() + "/" + userID.String()
}

func (s *Store) snapshot() *Store {
	clone := NewStore()
	for k, v := range s.Users {
		clone.Users[k] = v
	}
	for k, v := range s.Rooms {
		clone.Rooms[k] = v
	}
	for k, v := range s.Reservations {
		clone.Reservations[k] = v
	}
	for k, v := range s.Bans {
		clone.Bans[k] = v
	}
	for k, v := range s.Idempotency {
		clone.Idempotency[k] = v
	}
	clone.Jobs = append([]Job(nil), s.Jobs...)
	clone.Readings = append([]shared.SensorReadingRecord(nil), s.Readings...)
	return clone
}

func (s *Store) restore(from *Store) {
	s.Users = from.Users
	s.Rooms = from.Rooms
	s.Reservations = from.Reservations
	s.Bans = from.Bans
	s.Idempotency = from.Idempotency
	s.Jobs = from.Jobs
	s.Readings = from.Readings
}

// UoW implements shared.UnitOfWork over a Store.
type UoW struct {
	store *Store
}

func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	before := u.store.snapshot()
	tx := &fakeTx{store: u.store}
	if err := fn(ctx, tx); err != nil {
		u.store.restore(before)
		return err
	}
	return nil
}

func (u *UoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) CommandReads() shared.CommandReads {
	return &lockedReads{store: u.store}
}

// lockedReads serves reads taken outside a transaction.
type lockedReads struct {
	store *Store
}

func (r *lockedReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&fakeReads{store: r.store}).UserByID(ctx, id)
}

func (r *lockedReads) RoomByID(ctx context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&fakeReads{store: r.store}).RoomByID(ctx, id)
}

func (r *lockedReads) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&fakeReads{store: r.store}).ReservationByID(ctx, id)
}

func (r *lockedReads) ActiveBanByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*shared.BanSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&fakeReads{store: r.store}).ActiveBanByUser(ctx, userID, now)
}

func (r *lockedReads) HasOverlap(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&fakeReads{store: r.store}).HasOverlap(ctx, roomID, start, end, excludeID)
}

func (r *lockedReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&fakeReads{store: r.store}).IdempotencyByKey(ctx, key, userID)
}

type fakeTx struct {
	store *Store
}

func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservations{t.store} }
func (t *fakeTx) Rooms() shared.RoomRepository               { return &fakeRooms{t.store} }
func (t *fakeTx) Bans() shared.BanRepository                 { return &fakeBans{t.store} }
func (t *fakeTx) Users() shared.UserRepository               { return &fakeUsers{t.store} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository  { return &fakeIdempotency{t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository {
	return &fakeNotifications{t.store}
}
func (t *fakeTx) Sensors() shared.SensorRepository { return &fakeSensors{t.store} }
func (t *fakeTx) Reads() shared.CommandReads       { return &fakeReads{t.store} }
func (t *fakeTx) DB() db.DBTX                      { return nil }

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

type fakeReads struct {
	store *Store
}

func (r *fakeReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	snap, ok := r.store.Users[id]
	if !ok {
		return nil, notFound("user not found")
	}
	return &snap, nil
}

func (r *fakeReads) RoomByID(_ context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	snap, ok := r.store.Rooms[id]
	if !ok {
		return nil, notFound("room not found")
	}
	return &snap, nil
}

func (r *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	snap, ok := r.store.Reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	return &snap, nil
}

func (r *fakeReads) ActiveBanByUser(_ context.Context, userID uuid.UUID, now time.Time) (*shared.BanSnapshot, error) {
	snap, ok := r.store.Bans[userID]
	if !ok {
		return nil, notFound("no ban")
	}
	if !snap.ExpiresAt.IsZero() && !snap.ExpiresAt.After(now) {
		return nil, notFound("ban expired")
	}
	return &snap, nil
}

func (r *fakeReads) HasOverlap(_ context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	for id, res := range r.store.Reservations {
		if res.RoomID != roomID {
			continue
		}
		if excludeID != nil && id == *excludeID {
			continue
		}
		if res.StartTime.Before(end) && start.Before(res.EndTime) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReads) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.store.Idempotency[idemKey(key, userID)]
	if !ok {
		return nil, notFound("idempotency key not found")
	}
	return &rec, nil
}

type fakeReservations struct {
	store *Store
}

func (f *fakeReservations) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	for _, existing := range f.store.Reservations {
		if existing.RoomID == res.RoomID() &&
			existing.StartTime.Before(res.TimeSlot().End()) &&
			res.TimeSlot().Start().Before(existing.EndTime) {
			return uuid.Nil, infra.WrapRepoErr("exclusion constraint", nil, infra.KindConflict)
		}
	}
	f.store.Reservations[res.ID()] = shared.ReservationSnapshot{
		ID:        res.ID(),
		RoomID:    res.RoomID(),
		UserID:    res.UserID(),
		StartTime: res.TimeSlot().Start(),
		EndTime:   res.TimeSlot().End(),
		Headcount: res.Headcount(),
	}
	return res.ID(), nil
}

func (f *fakeReservations) Update(_ context.Context, _ db.DBTX, res *reservation.Reservation) error {
	if _, ok := f.store.Reservations[res.ID()]; !ok {
		return notFound("reservation not found")
	}
	f.store.Reservations[res.ID()] = shared.ReservationSnapshot{
		ID:        res.ID(),
		RoomID:    res.RoomID(),
		UserID:    res.UserID(),
		StartTime: res.TimeSlot().Start(),
		EndTime:   res.TimeSlot().End(),
		Headcount: res.Headcount(),
	}
	return nil
}

func (f *fakeReservations) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := f.store.Reservations[id]; !ok {
		return notFound("reservation not found")
	}
	delete(f.store.Reservations, id)
	return nil
}

func (f *fakeReservations) DeleteFutureByUser(_ context.Context, _ db.DBTX, userID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, res := range f.store.Reservations {
		if res.UserID == userID && !res.StartTime.Before(now) {
			ids = append(ids, id)
			delete(f.store.Reservations, id)
		}
	}
	return ids, nil
}

type fakeRooms struct {
	store *Store
}

func (f *fakeRooms) Create(_ context.Context, _ db.DBTX, rm *room.Room) (uuid.UUID, error) {
	for _, existing := range f.store.Rooms {
		if existing.Code == rm.Code() {
			return uuid.Nil, infra.WrapRepoErr("duplicate room code", nil, infra.KindDuplicateKey)
		}
	}
	f.store.Rooms[rm.ID()] = shared.RoomSnapshot{
		ID:       rm.ID(),
		Code:     rm.Code(),
		Name:     rm.Name(),
		Capacity: rm.Capacity(),
		Retired:  rm.IsRetired(),
	}
	return rm.ID(), nil
}

func (f *fakeRooms) UpdateCapacity(_ context.Context, _ db.DBTX, id uuid.UUID, capacity int) error {
	snap, ok := f.store.Rooms[id]
	if !ok {
		return notFound("room not found")
	}
	snap.Capacity = capacity
	f.store.Rooms[id] = snap
	return nil
}

func (f *fakeRooms) Retire(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	snap, ok := f.store.Rooms[id]
	if !ok {
		return notFound("room not found")
	}
	snap.Retired = true
	f.store.Rooms[id] = snap
	return nil
}

type fakeBans struct {
	store *Store
}

func (f *fakeBans) Create(_ context.Context, _ db.DBTX, b *ban.Ban) (uuid.UUID, error) {
	f.store.Bans[b.UserID()] = shared.BanSnapshot{
		ID:        b.ID(),
		UserID:    b.UserID(),
		BannedBy:  b.BannedBy(),
		ExpiresAt: b.ExpiresAt(),
	}
	return b.ID(), nil
}

func (f *fakeBans) DeleteByUser(_ context.Context, _ db.DBTX, userID uuid.UUID) (bool, error) {
	if _, ok := f.store.Bans[userID]; !ok {
		return false, nil
	}
	delete(f.store.Bans, userID)
	return true, nil
}

type fakeUsers struct {
	store *Store
}

func (f *fakeUsers) Create(_ context.Context, _ db.DBTX, u *user.User) (uuid.UUID, error) {
	for _, existing := range f.store.Users {
		if existing.Email == u.Email().Value() {
			return uuid.Nil, infra.WrapRepoErr("duplicate email", nil, infra.KindDuplicateKey)
		}
	}
	f.store.Users[u.ID()] = shared.UserSnapshot{
		ID:    u.ID(),
		Email: u.Email().Value(),
		Role:  u.Role(),
	}
	return u.ID(), nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, _ db.DBTX, userID uuid.UUID) error {
	if _, ok := f.store.Users[userID]; !ok {
		return notFound("user not found")
	}
	return nil
}

type fakeIdempotency struct {
	store *Store
}

func (f *fakeIdempotency) TryInsert(_ context.Context, _ db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	k := idemKey(key, userID)
	if _, ok := f.store.Idempotency[k]; ok {
		return false, nil
	}
	f.store.Idempotency[k] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		Status:      "processing",
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (f *fakeIdempotency) UpdateStatusCompleted(_ context.Context, _ db.DBTX, key, userID uuid.UUID, resultReservationID uuid.UUID) error {
	k := idemKey(key, userID)
	rec, ok := f.store.Idempotency[k]
	if !ok {
		return notFound("idempotency key not found")
	}
	rec.Status = "completed"
	rec.ResultReservationID = &resultReservationID
	f.store.Idempotency[k] = rec
	return nil
}

type fakeNotifications struct {
	store *Store
}

func (f *fakeNotifications) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	f.store.Jobs = append(f.store.Jobs, Job{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

type fakeSensors struct {
	store *Store
}

func (f *fakeSensors) InsertReading(_ context.Context, _ db.DBTX, rec shared.SensorReadingRecord) (uuid.UUID, error) {
	f.store.Readings = append(f.store.Readings, rec)
	return uuid.New(), nil
}

// ReservationReadStore adapts the fake store to the read side so
// queries.NewReservationQueries can run against it.
type ReservationReadStore struct {
	store *Store
}

func NewReservationReadStore(store *Store) *ReservationReadStore {
	return &ReservationReadStore{store: store}
}

// The read store takes no lock: the booking replay path calls it while
// the transaction mutex is already held, and the keyed locks serialize
// every concurrent caller touching the same rows.
func (s *ReservationReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	res, ok := s.store.Reservations[id]
	if !ok {
		return nil, queries.ErrReservationNotFound
	}
	view := &queries.ReservationView{
		ID:        res.ID,
		RoomID:    res.RoomID,
		UserID:    res.UserID,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		Headcount: res.Headcount,
	}
	if rm, ok := s.store.Rooms[res.RoomID]; ok {
		view.RoomCode = rm.Code
	}
	if u, ok := s.store.Users[res.UserID]; ok {
		view.UserEmail = u.Email
	}
	return view, nil
}

func (s *ReservationReadStore) FindByUserID(_ context.Context, userID uuid.UUID) ([]*queries.ReservationListItem, error) {
	var items []*queries.ReservationListItem
	for _, res := range s.store.Reservations {
		if res.UserID != userID {
			continue
		}
		items = append(items, s.listItem(res))
	}
	sortListItems(items)
	return items, nil
}

func (s *ReservationReadStore) FindByRoomID(_ context.Context, roomID uuid.UUID) ([]*queries.ReservationListItem, error) {
	var items []*queries.ReservationListItem
	for _, res := range s.store.Reservations {
		if res.RoomID != roomID {
			continue
		}
		items = append(items, s.listItem(res))
	}
	sortListItems(items)
	return items, nil
}

// Lists come back ordered by start time with id as tiebreak, same as the
// SQL read side.
func sortListItems(items []*queries.ReservationListItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].StartTime.Before(items[j].StartTime)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

func (s *ReservationReadStore) listItem(res shared.ReservationSnapshot) *queries.ReservationListItem {
	item := &queries.ReservationListItem{
		ID:        res.ID,
		RoomID:    res.RoomID,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		Headcount: res.Headcount,
	}
	if rm, ok := s.store.Rooms[res.RoomID]; ok {
		item.RoomCode = rm.Code
	}
	return item
}
