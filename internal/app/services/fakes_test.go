package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/repositories"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/events"
	"github.com/stretchr/testify/mock"
)

// fakeDB is an in-memory stand-in for the Postgres schema. Counter updates follow the same
// conditional rules as the SQL and a failed transaction restores the previous state.
type fakeDB struct {
	mu sync.Mutex

	nextID        int64
	users         map[int64]*models.User
	clubs         map[int64]*models.Club
	requests      map[int64]*models.ClubRequest
	memberships   []*models.UserClub
	announcements map[int64]*models.Announcement
	recipients    map[int64]map[int64]*models.UserAnnouncement
	questions     map[int64]*models.Question
	answers       map[int64]*models.Answer
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:         map[int64]*models.User{},
		clubs:         map[int64]*models.Club{},
		requests:      map[int64]*models.ClubRequest{},
		announcements: map[int64]*models.Announcement{},
		recipients:    map[int64]map[int64]*models.UserAnnouncement{},
		questions:     map[int64]*models.Question{},
		answers:       map[int64]*models.Answer{},
	}
}

func (db *fakeDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *fakeDB) stores() Stores {
	return Stores{
		Users:         fakeUsers{db},
		Clubs:         fakeClubs{db},
		Requests:      fakeRequests{db},
		Memberships:   fakeMemberships{db},
		Announcements: fakeAnnouncements{db},
		Questions:     fakeQuestions{db},
		Answers:       fakeAnswers{db},
	}
}

type fakeState struct {
	nextID        int64
	users         map[int64]models.User
	clubs         map[int64]models.Club
	requests      map[int64]models.ClubRequest
	memberships   []models.UserClub
	announcements map[int64]models.Announcement
	recipients    map[int64]map[int64]models.UserAnnouncement
	questions     map[int64]models.Question
	answers       map[int64]models.Answer
}

func (db *fakeDB) snapshot() fakeState {
	s := fakeState{
		nextID:        db.nextID,
		users:         map[int64]models.User{},
		clubs:         map[int64]models.Club{},
		requests:      map[int64]models.ClubRequest{},
		announcements: map[int64]models.Announcement{},
		recipients:    map[int64]map[int64]models.UserAnnouncement{},
		questions:     map[int64]models.Question{},
		answers:       map[int64]models.Answer{},
	}
	for k, v := range db.users {
		s.users[k] = *v
	}
	for k, v := range db.clubs {
		s.clubs[k] = *v
	}
	for k, v := range db.requests {
		s.requests[k] = *v
	}
	for _, m := range db.memberships {
		s.memberships = append(s.memberships, *m)
	}
	for k, v := range db.announcements {
		s.announcements[k] = *v
	}
	for k, rs := range db.recipients {
		s.recipients[k] = map[int64]models.UserAnnouncement{}
		for uid, r := range rs {
			s.recipients[k][uid] = *r
		}
	}
	for k, v := range db.questions {
		s.questions[k] = *v
	}
	for k, v := range db.answers {
		s.answers[k] = *v
	}
	return s
}

func (db *fakeDB) restore(s fakeState) {
	db.nextID = s.nextID
	db.users = map[int64]*models.User{}
	for k, v := range s.users {
		v := v
		db.users[k] = &v
	}
	db.clubs = map[int64]*models.Club{}
	for k, v := range s.clubs {
		v := v
		db.clubs[k] = &v
	}
	db.requests = map[int64]*models.ClubRequest{}
	for k, v := range s.requests {
		v := v
		db.requests[k] = &v
	}
	db.memberships = nil
	for _, m := range s.memberships {
		m := m
		db.memberships = append(db.memberships, &m)
	}
	db.announcements = map[int64]*models.Announcement{}
	for k, v := range s.announcements {
		v := v
		db.announcements[k] = &v
	}
	db.recipients = map[int64]map[int64]*models.UserAnnouncement{}
	for k, rs := range s.recipients {
		db.recipients[k] = map[int64]*models.UserAnnouncement{}
		for uid, r := range rs {
			r := r
			db.recipients[k][uid] = &r
		}
	}
	db.questions = map[int64]*models.Question{}
	for k, v := range s.questions {
		v := v
		db.questions[k] = &v
	}
	db.answers = map[int64]*models.Answer{}
	for k, v := range s.answers {
		v := v
		db.answers[k] = &v
	}
}

// fakeTransactor serialises transactions, which is what the row locks achieve in Postgres
type fakeTransactor struct {
	db    *fakeDB
	txMu  sync.Mutex
	calls int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	t.calls++

	t.db.mu.Lock()
	saved := t.db.snapshot()
	t.db.mu.Unlock()

	if err := fn(ctx, t.db.stores()); err != nil {
		t.db.mu.Lock()
		t.db.restore(saved)
		t.db.mu.Unlock()
		return err
	}
	return nil
}

// seeding helpers

func (db *fakeDB) addUser(u models.User) *models.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u.ID == 0 {
		u.ID = db.id()
	} else if u.ID > db.nextID {
		db.nextID = u.ID
	}
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	db.users[u.ID] = &u
	return &u
}

func (db *fakeDB) addClub(c models.Club) *models.Club {
	db.mu.Lock()
	defer db.mu.Unlock()
	if c.ID == 0 {
		c.ID = db.id()
	} else if c.ID > db.nextID {
		db.nextID = c.ID
	}
	c.AvailableSlots = c.TotalSlots - c.NoOfMembers
	db.clubs[c.ID] = &c
	return &c
}

func (db *fakeDB) addMember(userID, clubID int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.memberships = append(db.memberships, &models.UserClub{ID: db.id(), UserID: userID, ClubID: clubID, JoinedDate: time.Now()})
	if u, ok := db.users[userID]; ok {
		u.JoinedClubs++
	}
	if c, ok := db.clubs[clubID]; ok {
		c.NoOfMembers++
		c.AvailableSlots = c.TotalSlots - c.NoOfMembers
	}
}

func (db *fakeDB) addRequest(r models.ClubRequest) *models.ClubRequest {
	db.mu.Lock()
	defer db.mu.Unlock()
	r.ID = db.id()
	if r.Status == "" {
		r.Status = models.RequestPending
	}
	db.requests[r.ID] = &r
	return &r
}

func (db *fakeDB) user(id int64) models.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.users[id]
}

func (db *fakeDB) club(id int64) models.Club {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.clubs[id]
}

func (db *fakeDB) request(id int64) models.ClubRequest {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.requests[id]
}

func (db *fakeDB) membershipCount(userID, clubID int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, m := range db.memberships {
		if m.UserID == userID && m.ClubID == clubID {
			n++
		}
	}
	return n
}

// users

type fakeUsers struct{ db *fakeDB }

func (f fakeUsers) Create(_ context.Context, user *models.User) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return 0, apperrors.ErrUserAlreadyExists
		}
	}
	user.ID = f.db.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.db.users[user.ID] = &cp
	return user.ID, nil
}

func (f fakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) FindByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return f.FindByID(ctx, id)
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

func (f fakeUsers) FindAll(_ context.Context) ([]*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []*models.User{}
	for _, u := range f.db.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeUsers) Search(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	all, _ := f.FindAll(ctx)
	prefix = strings.ToLower(prefix)
	out := []*models.User{}
	for _, u := range all {
		if strings.HasPrefix(strings.ToLower(u.Email), prefix) ||
			strings.HasPrefix(strings.ToLower(u.FirstName), prefix) ||
			strings.HasPrefix(strings.ToLower(u.LastName), prefix) {
			out = append(out, u)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f fakeUsers) Update(_ context.Context, user *models.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	cur, ok := f.db.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for _, u := range f.db.users {
		if u.ID != user.ID && strings.EqualFold(u.Email, user.Email) {
			return apperrors.ErrUserAlreadyExists
		}
	}
	cp := *user
	cp.JoinedClubs = cur.JoinedClubs
	cp.UpdatedAt = time.Now()
	user.UpdatedAt = cp.UpdatedAt
	f.db.users[user.ID] = &cp
	return nil
}

func (f fakeUsers) UpdateProfilePhoto(_ context.Context, id int64, photo []byte) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.ProfilePhoto = photo
	return nil
}

func (f fakeUsers) UpdateRole(_ context.Context, id int64, role models.RoleType) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (f fakeUsers) IncrementJoinedClubs(_ context.Context, id int64, limit int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok || u.JoinedClubs >= limit {
		return apperrors.ErrClubLimitExceeded
	}
	u.JoinedClubs++
	return nil
}

func (f fakeUsers) DecrementJoinedClubs(_ context.Context, ids []int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, id := range ids {
		if u, ok := f.db.users[id]; ok && u.JoinedClubs > 0 {
			u.JoinedClubs--
		}
	}
	return nil
}

func (f fakeUsers) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.db.users, id)
	kept := f.db.memberships[:0]
	for _, m := range f.db.memberships {
		if m.UserID != id {
			kept = append(kept, m)
		}
	}
	f.db.memberships = kept
	for rid, r := range f.db.requests {
		if r.UserID == id {
			delete(f.db.requests, rid)
		}
	}
	for _, c := range f.db.clubs {
		if c.ClubAdminID != nil && *c.ClubAdminID == id {
			c.ClubAdminID = nil
		}
	}
	return nil
}

// clubs

type fakeClubs struct{ db *fakeDB }

func (f fakeClubs) Create(_ context.Context, club *models.Club) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.clubs {
		if c.ClubName == club.ClubName {
			return 0, apperrors.ErrClubAlreadyExists
		}
	}
	club.ID = f.db.id()
	club.NoOfMembers = 0
	club.AvailableSlots = club.TotalSlots
	club.CreatedAt = time.Now()
	club.UpdatedAt = club.CreatedAt
	cp := *club
	f.db.clubs[club.ID] = &cp
	return club.ID, nil
}

func (f fakeClubs) FindByID(_ context.Context, id int64) (*models.Club, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.clubs[id]
	if !ok {
		return nil, apperrors.ErrClubNotFound
	}
	cp := *c
	return &cp, nil
}

func (f fakeClubs) FindByIDForUpdate(ctx context.Context, id int64) (*models.Club, error) {
	return f.FindByID(ctx, id)
}

func (f fakeClubs) FindByName(_ context.Context, name string) (*models.Club, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.clubs {
		if c.ClubName == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.ErrClubNotFound
}

func (f fakeClubs) FindAll(_ context.Context) ([]*models.Club, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []*models.Club{}
	for _, c := range f.db.clubs {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClubName < out[j].ClubName })
	return out, nil
}

func (f fakeClubs) Update(_ context.Context, club *models.Club) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	cur, ok := f.db.clubs[club.ID]
	if !ok {
		return apperrors.ErrClubNotFound
	}
	for _, c := range f.db.clubs {
		if c.ID != club.ID && c.ClubName == club.ClubName {
			return apperrors.ErrClubAlreadyExists
		}
	}
	if club.TotalSlots < cur.NoOfMembers {
		return apperrors.NewInvalidRequestError("Total slots cannot be less than the current number of members")
	}
	cur.ClubName = club.ClubName
	cur.Description = club.Description
	cur.TotalSlots = club.TotalSlots
	cur.ClubAdminID = club.ClubAdminID
	cur.AvailableSlots = cur.TotalSlots - cur.NoOfMembers
	club.NoOfMembers = cur.NoOfMembers
	club.AvailableSlots = cur.AvailableSlots
	return nil
}

func (f fakeClubs) UpdateImage(_ context.Context, id int64, image []byte) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.clubs[id]
	if !ok {
		return apperrors.ErrClubNotFound
	}
	c.ClubImage = image
	return nil
}

func (f fakeClubs) UpdateBackgroundImage(_ context.Context, id int64, image []byte) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.clubs[id]
	if !ok {
		return apperrors.ErrClubNotFound
	}
	c.ClubBackgroundImage = image
	return nil
}

func (f fakeClubs) IncrementMembers(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.clubs[id]
	if !ok || c.NoOfMembers >= c.TotalSlots {
		return apperrors.ErrClubCapacityExceeded
	}
	c.NoOfMembers++
	c.AvailableSlots = c.TotalSlots - c.NoOfMembers
	return nil
}

func (f fakeClubs) DecrementMembers(_ context.Context, ids []int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, id := range ids {
		if c, ok := f.db.clubs[id]; ok && c.NoOfMembers > 0 {
			c.NoOfMembers--
			c.AvailableSlots = c.TotalSlots - c.NoOfMembers
		}
	}
	return nil
}

func (f fakeClubs) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.clubs[id]; !ok {
		return apperrors.ErrClubNotFound
	}
	delete(f.db.clubs, id)
	kept := f.db.memberships[:0]
	for _, m := range f.db.memberships {
		if m.ClubID != id {
			kept = append(kept, m)
		}
	}
	f.db.memberships = kept
	return nil
}

func (f fakeClubs) CountAdministeredBy(_ context.Context, userID, excludeClubID int64) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, c := range f.db.clubs {
		if c.ID != excludeClubID && c.ClubAdminID != nil && *c.ClubAdminID == userID {
			n++
		}
	}
	return n, nil
}

// club requests

type fakeRequests struct{ db *fakeDB }

func (f fakeRequests) Create(_ context.Context, req *models.ClubRequest) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.requests {
		if r.UserID == req.UserID && r.ClubID == req.ClubID && r.Status == models.RequestPending {
			return 0, apperrors.ErrRequestAlreadyExists
		}
	}
	req.ID = f.db.id()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	cp := *req
	f.db.requests[req.ID] = &cp
	return req.ID, nil
}

func (f fakeRequests) FindByID(_ context.Context, id int64) (*models.ClubRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.requests[id]
	if !ok {
		return nil, apperrors.NewRecordNotFoundError("Club Request not found")
	}
	cp := *r
	return &cp, nil
}

func (f fakeRequests) FindByIDForUpdate(ctx context.Context, id int64) (*models.ClubRequest, error) {
	return f.FindByID(ctx, id)
}

func (f fakeRequests) ExistsPending(_ context.Context, userID, clubID int64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.requests {
		if r.UserID == userID && r.ClubID == clubID && r.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeRequests) list(match func(r *models.ClubRequest) bool) []*models.ClubRequest {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []*models.ClubRequest{}
	for _, r := range f.db.requests {
		if match(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f fakeRequests) ListByClub(_ context.Context, clubID int64, status *models.RequestStatus) ([]*models.ClubRequest, error) {
	return f.list(func(r *models.ClubRequest) bool {
		if r.ClubID != clubID {
			return false
		}
		if status == nil {
			return r.Status != models.RequestWithdrawn
		}
		return r.Status == *status
	}), nil
}

func (f fakeRequests) ListByUser(_ context.Context, userID int64, status *models.RequestStatus) ([]*models.ClubRequest, error) {
	return f.list(func(r *models.ClubRequest) bool {
		return r.UserID == userID && (status == nil || r.Status == *status)
	}), nil
}

func (f fakeRequests) UpdateStatus(_ context.Context, req *models.ClubRequest) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.requests[req.ID]
	if !ok {
		return apperrors.NewRecordNotFoundError("Club Request not found")
	}
	r.Status = req.Status
	r.ApproverComment = req.ApproverComment
	return nil
}

func (f fakeRequests) UpdateUserComment(_ context.Context, id int64, comment *string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.requests[id]
	if !ok {
		return apperrors.NewRecordNotFoundError("Club Request not found")
	}
	r.UserComment = comment
	return nil
}

// memberships

type fakeMemberships struct{ db *fakeDB }

func (f fakeMemberships) Create(_ context.Context, uc *models.UserClub) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, m := range f.db.memberships {
		if m.UserID == uc.UserID && m.ClubID == uc.ClubID {
			return apperrors.ErrRequestAlreadyExists
		}
	}
	uc.ID = f.db.id()
	uc.JoinedDate = time.Now()
	cp := *uc
	f.db.memberships = append(f.db.memberships, &cp)
	return nil
}

func (f fakeMemberships) Exists(_ context.Context, userID, clubID int64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, m := range f.db.memberships {
		if m.UserID == userID && m.ClubID == clubID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeMemberships) ListClubsByUser(ctx context.Context, userID int64) ([]*models.Club, error) {
	ids, _ := f.ListClubIDsByUser(ctx, userID)
	out := []*models.Club{}
	for _, id := range ids {
		c, err := fakeClubs(f).FindByID(ctx, id)
		if err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeMemberships) ListMembersByClub(ctx context.Context, clubID int64) ([]*models.User, error) {
	ids, _ := f.ListUserIDsByClub(ctx, clubID)
	out := []*models.User{}
	for _, id := range ids {
		u, err := fakeUsers(f).FindByID(ctx, id)
		if err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f fakeMemberships) ListClubIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	ids := []int64{}
	for _, m := range f.db.memberships {
		if m.UserID == userID {
			ids = append(ids, m.ClubID)
		}
	}
	return ids, nil
}

func (f fakeMemberships) ListUserIDsByClub(_ context.Context, clubID int64) ([]int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	ids := []int64{}
	for _, m := range f.db.memberships {
		if m.ClubID == clubID {
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

// announcements

type fakeAnnouncements struct{ db *fakeDB }

func (f fakeAnnouncements) Create(_ context.Context, a *models.Announcement) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a.ID = f.db.id()
	a.CreatedAt = time.Now().Add(time.Duration(a.ID) * time.Millisecond)
	a.UpdatedAt = a.CreatedAt
	cp := *a
	f.db.announcements[a.ID] = &cp
	return a.ID, nil
}

func (f fakeAnnouncements) AddRecipients(_ context.Context, announcementID int64, recipients []repositories.Recipient) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	rs, ok := f.db.recipients[announcementID]
	if !ok {
		rs = map[int64]*models.UserAnnouncement{}
		f.db.recipients[announcementID] = rs
	}
	for _, r := range recipients {
		if _, exists := rs[r.UserID]; exists {
			continue
		}
		rs[r.UserID] = &models.UserAnnouncement{UserID: r.UserID, AnnouncementID: announcementID, IsSeen: r.IsSeen}
	}
	return nil
}

func (f fakeAnnouncements) ListForUser(_ context.Context, filter repositories.AnnouncementFilter) ([]*models.AnnouncementView, int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	views := []*models.AnnouncementView{}
	for id, a := range f.db.announcements {
		if a.ClubID != filter.ClubID {
			continue
		}
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		ua, ok := f.db.recipients[id][filter.UserID]
		if !ok || (filter.UnseenOnly && ua.IsSeen) {
			continue
		}
		v := &models.AnnouncementView{Announcement: *a, IsSeen: ua.IsSeen, SeenAt: ua.SeenAt}
		if p, ok := f.db.users[a.PostedBy]; ok {
			v.PosterFirstName, v.PosterLastName = p.FirstName, p.LastName
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].IsSeen != views[j].IsSeen {
			return !views[i].IsSeen
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	total := int64(len(views))
	if filter.Offset >= len(views) {
		return []*models.AnnouncementView{}, total, nil
	}
	end := len(views)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return views[filter.Offset:end], total, nil
}

func (f fakeAnnouncements) MarkSeen(_ context.Context, userID, announcementID int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	ua, ok := f.db.recipients[announcementID][userID]
	if !ok {
		return apperrors.NewRecordNotFoundError("User announcement not found")
	}
	now := time.Now()
	ua.IsSeen = true
	ua.SeenAt = &now
	return nil
}

// questions and answers

type fakeQuestions struct{ db *fakeDB }

func (f fakeQuestions) Create(_ context.Context, q *models.Question) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	q.ID = f.db.id()
	q.CreatedAt = time.Now()
	cp := *q
	f.db.questions[q.ID] = &cp
	return q.ID, nil
}

func (f fakeQuestions) FindByID(_ context.Context, id int64) (*models.Question, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	q, ok := f.db.questions[id]
	if !ok {
		return nil, apperrors.ErrQuestionNotFound
	}
	cp := *q
	return &cp, nil
}

func (f fakeQuestions) ListByClub(_ context.Context, clubID int64) ([]*models.Question, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []*models.Question{}
	for _, q := range f.db.questions {
		if q.ClubID == clubID {
			cp := *q
			if u, ok := f.db.users[q.UserID]; ok {
				cp.AuthorFirstName, cp.AuthorLastName, cp.AuthorRole = u.FirstName, u.LastName, u.Role
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpvoteCount != out[j].UpvoteCount {
			return out[i].UpvoteCount > out[j].UpvoteCount
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f fakeQuestions) Upvote(_ context.Context, id int64) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	q, ok := f.db.questions[id]
	if !ok {
		return 0, apperrors.ErrQuestionNotFound
	}
	q.UpvoteCount++
	return q.UpvoteCount, nil
}

type fakeAnswers struct{ db *fakeDB }

func (f fakeAnswers) Create(_ context.Context, a *models.Answer) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a.ID = f.db.id()
	a.CreatedAt = time.Now()
	cp := *a
	f.db.answers[a.ID] = &cp
	return a.ID, nil
}

func (f fakeAnswers) ListByQuestion(ctx context.Context, questionID int64) ([]*models.Answer, error) {
	return f.ListByQuestionIDs(ctx, []int64{questionID})
}

func (f fakeAnswers) ListByQuestionIDs(_ context.Context, questionIDs []int64) ([]*models.Answer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range questionIDs {
		want[id] = true
	}
	out := []*models.Answer{}
	for _, a := range f.db.answers {
		if want[a.QuestionID] {
			cp := *a
			if u, ok := f.db.users[a.UserID]; ok {
				cp.AuthorFirstName, cp.AuthorLastName, cp.AuthorRole = u.FirstName, u.LastName, u.Role
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// mocks

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

func eventOfType(t string) interface{} {
	return mock.MatchedBy(func(e events.Event) bool { return e.Type == t })
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) Close() error {
	return m.Called().Error(0)
}
