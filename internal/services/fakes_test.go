package services

import (
	"context"
	"sync"
	"time"

	"masterokBack/internal/fsm"
	"masterokBack/internal/geo"
	"masterokBack/internal/models"
)

// In-memory doubles for the repository interfaces. They mimic the database
// semantics that matter to the services: unique keys, compare-and-set status
// updates and sibling rejection inside Accept.

type fakeRequestRepo struct {
	mu     sync.Mutex
	nextID int
	reqs   map[int]*models.RepairRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{nextID: 1, reqs: make(map[int]*models.RepairRequest)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, req models.RepairRequest) (models.RepairRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = f.nextID
	f.nextID++
	req.CreatedAt = time.Now()
	copied := req
	f.reqs[req.ID] = &copied
	return req, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int) (models.RepairRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok {
		return models.RepairRequest{}, models.ErrRepairRequestNotFound
	}
	return *req, nil
}

func (f *fakeRequestRepo) GetByUser(ctx context.Context, userID int) ([]models.RepairRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RepairRequest
	for _, req := range f.reqs {
		if req.CreatedBy == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) Search(ctx context.Context, filter models.RepairRequestFilter) ([]models.RepairRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RepairRequest
	for _, req := range f.reqs {
		if filter.DeviceType != "" && req.DeviceType != filter.DeviceType {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, req models.RepairRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.reqs[req.ID]
	if !ok {
		return models.ErrRepairRequestNotFound
	}
	existing.Title = req.Title
	existing.Description = req.Description
	existing.DeviceType = req.DeviceType
	existing.Address = req.Address
	existing.DesiredCompletionDate = req.DesiredCompletionDate
	return nil
}

func (f *fakeRequestRepo) SetCoordinates(ctx context.Context, id int, lat, lon float64, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok {
		return models.ErrRepairRequestNotFound
	}
	req.Latitude = &lat
	req.Longitude = &lon
	req.Address = address
	return nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id int, fromStatus, toStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok {
		return models.ErrRepairRequestNotFound
	}
	if req.Status != fromStatus {
		return models.ErrRequestConflict
	}
	req.Status = toStatus
	return nil
}

func (f *fakeRequestRepo) SetFinalPrice(ctx context.Context, id int, finalPrice float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok {
		return models.ErrRepairRequestNotFound
	}
	req.FinalPrice = &finalPrice
	return nil
}

func (f *fakeRequestRepo) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reqs[id]; !ok {
		return models.ErrRepairRequestNotFound
	}
	delete(f.reqs, id)
	return nil
}

type fakeResponseRepo struct {
	mu       sync.Mutex
	nextID   int
	resps    map[int]*models.Response
	requests *fakeRequestRepo
}

func newFakeResponseRepo(requests *fakeRequestRepo) *fakeResponseRepo {
	return &fakeResponseRepo{nextID: 1, resps: make(map[int]*models.Response), requests: requests}
}

func (f *fakeResponseRepo) Create(ctx context.Context, resp models.Response) (models.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.resps {
		if existing.RepairRequestID == resp.RepairRequestID && existing.WorkerID == resp.WorkerID {
			return models.Response{}, models.ErrAlreadyResponded
		}
	}
	resp.ID = f.nextID
	f.nextID++
	resp.CreatedAt = time.Now()
	copied := resp
	f.resps[resp.ID] = &copied
	return resp, nil
}

func (f *fakeResponseRepo) GetByID(ctx context.Context, id int) (models.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp, ok := f.resps[id]
	if !ok {
		return models.Response{}, models.ErrResponseNotFound
	}
	return *resp, nil
}

func (f *fakeResponseRepo) GetByRequest(ctx context.Context, requestID int) ([]models.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Response
	for _, resp := range f.resps {
		if resp.RepairRequestID == requestID {
			out = append(out, *resp)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) GetByWorker(ctx context.Context, workerID int) ([]models.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Response
	for _, resp := range f.resps {
		if resp.WorkerID == workerID {
			out = append(out, *resp)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) HasResponded(ctx context.Context, requestID, workerID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, resp := range f.resps {
		if resp.RepairRequestID == requestID && resp.WorkerID == workerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResponseRepo) GetAcceptedByRequest(ctx context.Context, requestID int) (models.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, resp := range f.resps {
		if resp.RepairRequestID == requestID && resp.Status == fsm.ResponseAccepted {
			return *resp, nil
		}
	}
	return models.Response{}, models.ErrNoAcceptedResponse
}

// Accept replicates the transactional cascade: request new->active CAS,
// response sent->accepted, siblings rejected. Losers of the race get
// ErrRequestConflict.
func (f *fakeResponseRepo) Accept(ctx context.Context, responseID, requestID int) error {
	f.requests.mu.Lock()
	defer f.requests.mu.Unlock()
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests.reqs[requestID]
	if !ok {
		return models.ErrRepairRequestNotFound
	}
	if req.Status != fsm.RequestNew {
		return models.ErrRequestConflict
	}
	resp, ok := f.resps[responseID]
	if !ok {
		return models.ErrResponseNotFound
	}
	if resp.Status != fsm.ResponseSent {
		return models.ErrRequestConflict
	}

	req.Status = fsm.RequestActive
	resp.Status = fsm.ResponseAccepted
	for _, sibling := range f.resps {
		if sibling.RepairRequestID == requestID && sibling.ID != responseID && sibling.Status == fsm.ResponseSent {
			sibling.Status = fsm.ResponseRejected
		}
	}
	return nil
}

type fakeListRepo struct {
	mu    sync.Mutex
	items map[int]map[string]map[int]string // userID -> list -> requestID -> notes
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{items: make(map[int]map[string]map[int]string)}
}

func (f *fakeListRepo) ensure(userID int) map[string]map[int]string {
	lists, ok := f.items[userID]
	if !ok {
		lists = make(map[string]map[int]string)
		for _, name := range models.ListNames {
			lists[name] = make(map[int]string)
		}
		f.items[userID] = lists
	}
	return lists
}

func (f *fakeListRepo) EnsureDefaultLists(ctx context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensure(userID)
	return nil
}

func (f *fakeListRepo) GetListsByUser(ctx context.Context, userID int) ([]models.UserList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensure(userID)
	var out []models.UserList
	for i, name := range models.ListNames {
		out = append(out, models.UserList{ID: i + 1, UserID: userID, Name: name})
	}
	return out, nil
}

func (f *fakeListRepo) AddItem(ctx context.Context, userID int, listName string, requestID int, notes string) (models.ListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lists := f.ensure(userID)
	list, ok := lists[listName]
	if !ok {
		return models.ListItem{}, models.ErrListNotFound
	}
	if _, exists := list[requestID]; exists {
		return models.ListItem{}, models.ErrAlreadyInList
	}
	list[requestID] = notes
	return models.ListItem{RepairRequestID: requestID, Notes: notes, AddedAt: time.Now()}, nil
}

func (f *fakeListRepo) RemoveItem(ctx context.Context, userID int, listName string, requestID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lists := f.ensure(userID)
	list, ok := lists[listName]
	if !ok {
		return models.ErrListNotFound
	}
	if _, exists := list[requestID]; !exists {
		return models.ErrItemNotInList
	}
	delete(list, requestID)
	return nil
}

func (f *fakeListRepo) MoveItem(ctx context.Context, userID int, requestID int, fromList, toList string) (models.ListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lists := f.ensure(userID)
	src, ok := lists[fromList]
	if !ok {
		return models.ListItem{}, models.ErrListNotFound
	}
	notes, exists := src[requestID]
	if !exists {
		return models.ListItem{}, models.ErrItemNotInList
	}
	dst, ok := lists[toList]
	if !ok {
		return models.ListItem{}, models.ErrListNotFound
	}
	if _, exists := dst[requestID]; exists {
		return models.ListItem{}, models.ErrAlreadyInList
	}
	delete(src, requestID)
	dst[requestID] = notes
	return models.ListItem{RepairRequestID: requestID, Notes: notes, AddedAt: time.Now()}, nil
}

func (f *fakeListRepo) IsInList(ctx context.Context, userID, requestID int, listName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lists := f.ensure(userID)
	if listName != "" {
		list, ok := lists[listName]
		if !ok {
			return false, models.ErrListNotFound
		}
		_, exists := list[requestID]
		return exists, nil
	}
	for _, list := range lists {
		if _, exists := list[requestID]; exists {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeListRepo) GetItems(ctx context.Context, userID int, listName string) ([]models.ListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lists := f.ensure(userID)
	list, ok := lists[listName]
	if !ok {
		return nil, models.ErrListNotFound
	}
	items := []models.ListItem{}
	for requestID, notes := range list {
		items = append(items, models.ListItem{RepairRequestID: requestID, Notes: notes})
	}
	return items, nil
}

func (f *fakeListRepo) UpdateNotes(ctx context.Context, userID int, listName string, requestID int, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lists := f.ensure(userID)
	list, ok := lists[listName]
	if !ok {
		return models.ErrListNotFound
	}
	if _, exists := list[requestID]; !exists {
		return models.ErrItemNotInList
	}
	list[requestID] = notes
	return nil
}

type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID int
	notes  []models.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	f.notes = append(f.notes, n)
	return n, nil
}

func (f *fakeNotificationRepo) GetByUser(ctx context.Context, userID int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notes {
		if f.notes[i].ID == id && f.notes[i].UserID == userID {
			f.notes[i].IsRead = true
			return nil
		}
	}
	return models.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.notes[:0]
	var removed int64
	for _, n := range f.notes {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	f.notes = kept
	return removed, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  int
	reviews map[int]*models.Review // keyed by id
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[int]*models.Review)}
}

func (f *fakeReviewRepo) Upsert(ctx context.Context, rev models.Review) (models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.reviews {
		if existing.RepairRequestID == rev.RepairRequestID && existing.CustomerID == rev.CustomerID {
			existing.Rating = rev.Rating
			existing.Comment = rev.Comment
			return *existing, nil
		}
	}
	f.nextID++
	rev.ID = f.nextID
	rev.CreatedAt = time.Now()
	copied := rev
	f.reviews[rev.ID] = &copied
	return rev, nil
}

func (f *fakeReviewRepo) GetByWorker(ctx context.Context, workerID int) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Review
	for _, rev := range f.reviews {
		if rev.WorkerID == workerID {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) GetRatingsByWorker(ctx context.Context, workerID int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for _, rev := range f.reviews {
		if rev.WorkerID == workerID {
			out = append(out, rev.Rating)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[int]models.User
	ratings map[int]float64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]models.User), ratings: make(map[int]float64)}
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateWorkerRating(ctx context.Context, workerID int, rating float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings[workerID] = rating
	return nil
}

type fakeLocationRepo struct {
	mu      sync.Mutex
	locs    map[int]models.UserLocation
	workers []models.WorkerLocation
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locs: make(map[int]models.UserLocation)}
}

func (f *fakeLocationRepo) Upsert(ctx context.Context, loc models.UserLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	loc.LastUpdated = time.Now()
	f.locs[loc.UserID] = loc
	return nil
}

func (f *fakeLocationRepo) GetByUser(ctx context.Context, userID int) (models.UserLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loc, ok := f.locs[userID]
	if !ok {
		return models.UserLocation{}, models.ErrNoRecord
	}
	return loc, nil
}

func (f *fakeLocationRepo) GetWorkerLocations(ctx context.Context) ([]models.WorkerLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.WorkerLocation{}, f.workers...), nil
}

func (f *fakeLocationRepo) Delete(ctx context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.locs[userID]; !ok {
		return models.ErrNoRecord
	}
	delete(f.locs, userID)
	return nil
}

type fakeWorkerLocator struct {
	mu        sync.Mutex
	nearby    []geo.NearbyWorker
	nearbyErr error
	updated   map[int64]string
	removed   map[int64]string
}

func newFakeWorkerLocator() *fakeWorkerLocator {
	return &fakeWorkerLocator{
		updated: make(map[int64]string),
		removed: make(map[int64]string),
	}
}

func (f *fakeWorkerLocator) SafeUpdateWorker(ctx context.Context, workerID int64, lon, lat float64, city string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[workerID] = city
	return nil
}

func (f *fakeWorkerLocator) RemoveWorker(ctx context.Context, workerID int64, city string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed[workerID] = city
	return nil
}

func (f *fakeWorkerLocator) Nearby(ctx context.Context, lon, lat, radiusKm float64, limit int, city string) ([]geo.NearbyWorker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nearbyErr != nil {
		return nil, f.nearbyErr
	}
	return append([]geo.NearbyWorker{}, f.nearby...), nil
}

type fakePriceRepo struct {
	mu      sync.Mutex
	history []models.PriceHistory
}

func (f *fakePriceRepo) Create(ctx context.Context, h models.PriceHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = len(f.history) + 1
	f.history = append(f.history, h)
	return nil
}

func (f *fakePriceRepo) SetFinalPrice(ctx context.Context, requestID int, finalPrice float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.history {
		if f.history[i].RepairRequestID == requestID {
			f.history[i].FinalPrice = &finalPrice
			return nil
		}
	}
	return models.ErrNoRecord
}

func (f *fakePriceRepo) Stats(ctx context.Context) (models.DataStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := models.DataStats{PriceHistoryRecords: len(f.history)}
	sum := 0.0
	for _, h := range f.history {
		stats.TotalRequests++
		if h.FinalPrice != nil {
			stats.CompletedWithPrice++
			sum += *h.FinalPrice
		}
	}
	if stats.CompletedWithPrice > 0 {
		stats.AveragePrice = sum / float64(stats.CompletedWithPrice)
	}
	stats.ReadyForTraining = stats.CompletedWithPrice >= 50
	return stats, nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	records []models.ActivityRecord
}

func (f *fakeActivityRepo) Create(ctx context.Context, rec models.ActivityRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}
