// Package memstore keeps reservations and users in process memory.
// It honors the same ports and error kinds as the PostgreSQL stores and backs tests that need real semantics without a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/user"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/queries"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	errNoRows        = errs.New("no rows in result set")
	errOverlap       = errs.New("conflicting key value violates exclusion constraint")
	errUniqueViolate = errs.New("duplicate key value violates unique constraint")
)

type reservationRow struct {
	id        uuid.UUID
	roomID    int64
	userID    uuid.UUID
	start     time.Time
	end       time.Time
	status    string
	createdAt time.Time
	updatedAt time.Time
}

type userRow struct {
	id        uuid.UUID
	username  string
	hash      string
	role      string
	createdAt time.Time
	updatedAt time.Time
}

type state struct {
	reservations map[uuid.UUID]reservationRow
	users        map[uuid.UUID]userRow
}

func (s state) clone() state {
	c := state{
		reservations: make(map[uuid.UUID]reservationRow, len(s.reservations)),
		users:        make(map[uuid.UUID]userRow, len(s.users)),
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store serializes every transaction, which subsumes the per-room lock.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

func New() *Store {
	return &Store{data: state{
		reservations: map[uuid.UUID]reservationRow{},
		users:        map[uuid.UUID]userRow{},
	}}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	staged := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &memTx{data: staged}); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = staged
	s.mu.Unlock()
	return nil
}

func (s *Store) Reservations() *ReservationReadStore {
	return &ReservationReadStore{store: s}
}

func (s *Store) Users() *UserReadStore {
	return &UserReadStore{store: s}
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

type memTx struct {
	data state
}

func (t *memTx) Reservations() shared.ReservationRepository {
	return &reservationRepo{data: t.data}
}

func (t *memTx) Users() shared.UserRepository {
	return &userRepo{data: t.data}
}

type reservationRepo struct {
	data state
}

func (r *reservationRepo) LockRoom(context.Context, reservation.RoomID) error {
	return nil
}

func (r *reservationRepo) FindConflicts(_ context.Context, roomID reservation.RoomID, slot reservation.TimeSlot, exclude uuid.UUID) ([]uuid.UUID, error) {
	return findConflicts(r.data, roomID.Int64(), slot.Start(), slot.End(), exclude), nil
}

func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	row := toRow(res)
	if row.status == reservation.StatusConfirmed.String() &&
		len(findConflicts(r.data, row.roomID, row.start, row.end, uuid.Nil)) > 0 {
		return infra.WrapRepoErr("failed to create reservation", errOverlap, infra.KindConflict)
	}
	r.data.reservations[row.id] = row
	return nil
}

func (r *reservationRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, ok := r.data.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", errNoRows, infra.KindNotFound)
	}
	return fromRow(row)
}

func (r *reservationRepo) UpdateStatus(_ context.Context, res *reservation.Reservation) error {
	row, ok := r.data.reservations[res.ID()]
	if !ok {
		return infra.WrapRepoErr("reservation not found", errNoRows, infra.KindNotFound)
	}
	row.status = res.Status().String()
	row.updatedAt = res.UpdatedAt()
	r.data.reservations[row.id] = row
	return nil
}

func (r *reservationRepo) UpdateSlot(_ context.Context, res *reservation.Reservation) error {
	row, ok := r.data.reservations[res.ID()]
	if !ok {
		return infra.WrapRepoErr("reservation not found", errNoRows, infra.KindNotFound)
	}
	slot := res.TimeSlot()
	if row.status == reservation.StatusConfirmed.String() &&
		len(findConflicts(r.data, row.roomID, slot.Start(), slot.End(), row.id)) > 0 {
		return infra.WrapRepoErr("failed to update reservation slot", errOverlap, infra.KindConflict)
	}
	row.start, row.end = slot.Start(), slot.End()
	row.updatedAt = res.UpdatedAt()
	r.data.reservations[row.id] = row
	return nil
}

func (r *reservationRepo) DeleteByRoom(_ context.Context, roomID reservation.RoomID) (int64, error) {
	var n int64
	for id, row := range r.data.reservations {
		if row.roomID == roomID.Int64() {
			delete(r.data.reservations, id)
			n++
		}
	}
	return n, nil
}

type userRepo struct {
	data state
}

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.data.users {
		if existing.username == u.Username().Value() {
			return infra.WrapRepoErr("failed to create user", errUniqueViolate, infra.KindDuplicateKey)
		}
	}
	r.data.users[u.ID()] = userRow{
		id:        u.ID(),
		username:  u.Username().Value(),
		hash:      u.PasswordHash(),
		role:      u.Role().String(),
		createdAt: u.CreatedAt(),
		updatedAt: u.UpdatedAt(),
	}
	return nil
}

// ReservationReadStore reads committed state only.
type ReservationReadStore struct {
	store *Store
}

func (r *ReservationReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, ok := r.store.snapshot().reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", errNoRows, infra.KindNotFound)
	}
	return toView(row), nil
}

func (r *ReservationReadStore) ListByRoom(_ context.Context, roomID reservation.RoomID) ([]*queries.ReservationView, error) {
	return listWhere(r.store.snapshot(), func(row reservationRow) bool { return row.roomID == roomID.Int64() }), nil
}

func (r *ReservationReadStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*queries.ReservationView, error) {
	return listWhere(r.store.snapshot(), func(row reservationRow) bool { return row.userID == userID }), nil
}

func (r *ReservationReadStore) FindConflicts(_ context.Context, roomID reservation.RoomID, slot reservation.TimeSlot, exclude uuid.UUID) ([]uuid.UUID, error) {
	return findConflicts(r.store.snapshot(), roomID.Int64(), slot.Start(), slot.End(), exclude), nil
}

type UserReadStore struct {
	store *Store
}

func (r *UserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.UserView, error) {
	row, ok := r.store.snapshot().users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", errNoRows, infra.KindNotFound)
	}
	return toUserView(row), nil
}

func (r *UserReadStore) FindByUsername(_ context.Context, username string) (*queries.UserView, string, error) {
	for _, row := range r.store.snapshot().users {
		if row.username == username {
			return toUserView(row), row.hash, nil
		}
	}
	return nil, "", infra.WrapRepoErr("user not found", errNoRows, infra.KindNotFound)
}

func findConflicts(data state, roomID int64, start, end time.Time, exclude uuid.UUID) []uuid.UUID {
	rows := make([]reservationRow, 0)
	for _, row := range data.reservations {
		if row.roomID != roomID || row.id == exclude || row.status != reservation.StatusConfirmed.String() {
			continue
		}
		if row.start.Before(end) && start.Before(row.end) {
			rows = append(rows, row)
		}
	}
	sortRows(rows)

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.id
	}
	return ids
}

func listWhere(data state, keep func(reservationRow) bool) []*queries.ReservationView {
	rows := make([]reservationRow, 0)
	for _, row := range data.reservations {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	sortRows(rows)

	views := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		views[i] = toView(row)
	}
	return views
}

func sortRows(rows []reservationRow) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].start.Equal(rows[j].start) {
			return rows[i].start.Before(rows[j].start)
		}
		return rows[i].id.String() < rows[j].id.String()
	})
}

func toRow(res *reservation.Reservation) reservationRow {
	return reservationRow{
		id:        res.ID(),
		roomID:    res.RoomID().Int64(),
		userID:    res.UserID(),
		start:     res.TimeSlot().Start(),
		end:       res.TimeSlot().End(),
		status:    res.Status().String(),
		createdAt: res.CreatedAt(),
		updatedAt: res.UpdatedAt(),
	}
}

func fromRow(row reservationRow) (*reservation.Reservation, error) {
	slot, err := reservation.NewTimeSlot(row.start, row.end)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored slot", err, infra.KindDBFailure)
	}
	status, err := reservation.ParseStatus(row.status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored status", err, infra.KindDBFailure)
	}
	return reservation.ReconstructReservation(row.id, reservation.RoomID(row.roomID), row.userID, slot, status, row.createdAt, row.updatedAt), nil
}

func toView(row reservationRow) *queries.ReservationView {
	return &queries.ReservationView{
		ID:        row.id,
		RoomID:    row.roomID,
		UserID:    row.userID,
		StartTime: row.start,
		EndTime:   row.end,
		Status:    row.status,
		CreatedAt: row.createdAt,
		UpdatedAt: row.updatedAt,
	}
}

func toUserView(row userRow) *queries.UserView {
	return &queries.UserView{
		ID:        row.id,
		Username:  row.username,
		Role:      row.role,
		CreatedAt: row.createdAt,
		UpdatedAt: row.updatedAt,
	}
}
