package services

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"

	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/storage"
)

// Фейки реализуют только то, что вызывают тесты; остальное паникует через
// встроенный nil-интерфейс.

type publishedEvent struct {
	Room    string
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(room, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Room: room, Type: eventType, Payload: payload})
}

func (p *recordingPublisher) rooms(eventType string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e.Room)
		}
	}
	return out
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

type fakeTeamRepo struct {
	repositories.TeamRepository
	mu     sync.Mutex
	teams  map[int]*models.Team
	nextID int
	lists  int
	gets   int

	updateErr error
}

func newFakeTeamRepo(teams ...models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: map[int]*models.Team{}, nextID: 100}
	for i := range teams {
		t := teams[i]
		r.teams[t.ID] = &t
	}
	return r
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.TeamCode == team.TeamCode {
			return repositories.ErrTeamCodeConflict
		}
	}
	r.nextID++
	team.ID = r.nextID
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) List(_ context.Context, _ repositories.ListTeamsFilter) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamName < out[j].TeamName })
	return out, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) UpdateLogo(_ context.Context, id int, logo *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Logo = logo
	return nil
}

type fakePlayerRepo struct {
	repositories.PlayerRepository
	players []models.Player
}

func (r *fakePlayerRepo) List(_ context.Context, filter repositories.ListPlayersFilter) ([]models.Player, error) {
	var out []models.Player
	for _, p := range r.players {
		if filter.TeamCode != nil && (p.TeamCode == nil || *p.TeamCode != *filter.TeamCode) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeTournamentRepo struct {
	repositories.TournamentRepository
	mu          sync.Mutex
	tournaments map[int]*models.Tournament
	summaries   map[int]json.RawMessage
	multi       map[int]bool
}

func newFakeTournamentRepo(ts ...models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{
		tournaments: map[int]*models.Tournament{},
		summaries:   map[int]json.RawMessage{},
		multi:       map[int]bool{},
	}
	for i := range ts {
		t := ts[i]
		r.tournaments[t.ID] = &t
	}
	return r
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tournament
	for _, t := range r.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = len(r.tournaments) + 1
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) UpdateImage(_ context.Context, id int, column repositories.TournamentImageColumn, url *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if column == repositories.TournamentLogo {
		t.Logo = url
	} else {
		t.Banner = url
	}
	return nil
}

func (r *fakeTournamentRepo) UpdateFormatSummary(_ context.Context, _ repositories.SQLExecutor, id int, summary json.RawMessage, multi bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	r.summaries[id] = summary
	r.multi[id] = multi
	return nil
}

type fakeStageRepo struct {
	repositories.StageRepository
	mu     sync.Mutex
	stages map[int]*models.TournamentStage
}

func newFakeStageRepo(stages ...models.TournamentStage) *fakeStageRepo {
	r := &fakeStageRepo{stages: map[int]*models.TournamentStage{}}
	for i := range stages {
		st := stages[i]
		r.stages[st.ID] = &st
	}
	return r
}

func (r *fakeStageRepo) GetByID(_ context.Context, id int) (*models.TournamentStage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stages[id]
	if !ok {
		return nil, repositories.ErrStageNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *fakeStageRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.TournamentStage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TournamentStage
	for _, st := range r.stages {
		if st.TournamentID == tournamentID {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StageOrder < out[j].StageOrder })
	return out, nil
}

func (r *fakeStageRepo) ListByTournaments(ctx context.Context, ids []int) (map[int][]models.TournamentStage, error) {
	out := make(map[int][]models.TournamentStage, len(ids))
	for _, id := range ids {
		stages, _ := r.ListByTournament(ctx, id)
		if len(stages) > 0 {
			out[id] = stages
		}
	}
	return out, nil
}

func (r *fakeStageRepo) ReplaceForTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, stages []models.TournamentStage) ([]models.TournamentStage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, st := range r.stages {
		if st.TournamentID == tournamentID {
			delete(r.stages, id)
		}
	}
	out := make([]models.TournamentStage, len(stages))
	for i, st := range stages {
		st.ID = tournamentID*100 + st.StageOrder
		cp := st
		r.stages[st.ID] = &cp
		out[i] = st
	}
	return out, nil
}

type fakeTournamentTeamRepo struct {
	repositories.TournamentTeamRepository
	mu      sync.Mutex
	entries map[int]*models.TournamentTeam
	nextID  int
	swaps   [][2]int
}

func newFakeTournamentTeamRepo(entries ...models.TournamentTeam) *fakeTournamentTeamRepo {
	r := &fakeTournamentTeamRepo{entries: map[int]*models.TournamentTeam{}, nextID: 1000}
	for i := range entries {
		e := entries[i]
		r.entries[e.ID] = &e
	}
	return r
}

func (r *fakeTournamentTeamRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.TournamentTeam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TournamentTeam
	for _, e := range r.entries {
		if e.TournamentID == tournamentID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seed == nil || out[j].Seed == nil || *out[i].Seed == *out[j].Seed {
			if (out[i].Seed == nil) != (out[j].Seed == nil) {
				return out[j].Seed == nil
			}
			return out[i].ID < out[j].ID
		}
		return *out[i].Seed < *out[j].Seed
	})
	return out, nil
}

func (r *fakeTournamentTeamRepo) GetByID(_ context.Context, id int) (*models.TournamentTeam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, repositories.ErrTournamentTeamNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeTournamentTeamRepo) Add(_ context.Context, _ repositories.SQLExecutor, entry *models.TournamentTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.TournamentID != entry.TournamentID {
			continue
		}
		if e.TeamID == entry.TeamID {
			return repositories.ErrTeamAlreadyRegistered
		}
		if e.Seed != nil && entry.Seed != nil && *e.Seed == *entry.Seed {
			return repositories.ErrSeedConflict
		}
	}
	r.nextID++
	entry.ID = r.nextID
	cp := *entry
	r.entries[entry.ID] = &cp
	return nil
}

func (r *fakeTournamentTeamRepo) Update(_ context.Context, entry *models.TournamentTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.ID]; !ok {
		return repositories.ErrTournamentTeamNotFound
	}
	cp := *entry
	r.entries[entry.ID] = &cp
	return nil
}

func (r *fakeTournamentTeamRepo) Remove(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return repositories.ErrTournamentTeamNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *fakeTournamentTeamRepo) SwapSeeds(_ context.Context, firstID, secondID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, okA := r.entries[firstID]
	b, okB := r.entries[secondID]
	if !okA || !okB {
		return repositories.ErrTournamentTeamNotFound
	}
	a.Seed, b.Seed = b.Seed, a.Seed
	r.swaps = append(r.swaps, [2]int{firstID, secondID})
	return nil
}

func (r *fakeTournamentTeamRepo) ReplaceForTournament(_ context.Context, tournamentID int, entries []models.TournamentTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		if e.TournamentID == tournamentID {
			delete(r.entries, id)
		}
	}
	for _, e := range entries {
		r.nextID++
		e.ID = r.nextID
		e.TournamentID = tournamentID
		cp := e
		r.entries[e.ID] = &cp
	}
	return nil
}

type fakeMatchRepo struct {
	repositories.MatchRepository
	mu      sync.Mutex
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo(matches ...models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: map[int]*models.Match{}, nextID: 500}
	for i := range matches {
		m := matches[i]
		r.matches[m.ID] = &m
	}
	return r
}

func (r *fakeMatchRepo) Create(_ context.Context, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.matches[m.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) List(_ context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, m := range r.matches {
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.TournamentID != nil && m.TournamentID != *filter.TournamentID {
			continue
		}
		if filter.StageID != nil && (m.StageID == nil || *m.StageID != *filter.StageID) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListByStage(ctx context.Context, stageID int) ([]models.Match, error) {
	return r.List(ctx, repositories.ListMatchesFilter{StageID: &stageID})
}

func (r *fakeMatchRepo) firstWith(tournamentID int, status models.MatchStatus) (*models.Match, error) {
	all, _ := r.List(context.Background(), repositories.ListMatchesFilter{TournamentID: &tournamentID, Status: &status})
	if len(all) == 0 {
		return nil, repositories.ErrMatchNotFound
	}
	return &all[0], nil
}

func (r *fakeMatchRepo) NextScheduled(_ context.Context, tournamentID int) (*models.Match, error) {
	return r.firstWith(tournamentID, models.MatchScheduled)
}

func (r *fakeMatchRepo) LastCompleted(_ context.Context, tournamentID int) (*models.Match, error) {
	return r.firstWith(tournamentID, models.MatchCompleted)
}

func (r *fakeMatchRepo) Update(_ context.Context, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[m.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	cp := *m
	r.matches[m.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakeGameRepo struct {
	repositories.GameRepository
	games  map[int]*models.Game
	nextID int
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: map[int]*models.Game{}}
}

func (r *fakeGameRepo) Create(_ context.Context, g *models.Game) error {
	for _, existing := range r.games {
		if existing.MatchID == g.MatchID && existing.GameNumber == g.GameNumber {
			return repositories.ErrGameNumberConflict
		}
	}
	r.nextID++
	g.ID = r.nextID
	cp := *g
	r.games[g.ID] = &cp
	return nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, id int) (*models.Game, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGameRepo) ListByMatch(_ context.Context, matchID int) ([]models.Game, error) {
	var out []models.Game
	for _, g := range r.games {
		if g.MatchID == matchID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameNumber < out[j].GameNumber })
	return out, nil
}

func (r *fakeGameRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(r.games, id)
	return nil
}

type fakeStatisticRepo struct {
	repositories.StatisticRepository
	rows []models.Statistic
}

func (r *fakeStatisticRepo) List(_ context.Context, _ repositories.ListStatisticsFilter) ([]models.Statistic, error) {
	return r.rows, nil
}

func (r *fakeStatisticRepo) Create(_ context.Context, st *models.Statistic) error {
	st.ID = len(r.rows) + 1
	r.rows = append(r.rows, *st)
	return nil
}

type fakeStaffRepo struct {
	repositories.StaffRepository
	users map[string]*models.StaffUser
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*models.StaffUser, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, repositories.ErrStaffNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeStaffRepo) Create(_ context.Context, u *models.StaffUser) error {
	if _, ok := r.users[u.Email]; ok {
		return repositories.ErrStaffEmailConflict
	}
	u.ID = len(r.users) + 1
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

type uploadCall struct {
	Bucket      storage.Bucket
	Key         string
	ContentType string
	Size        int
}

type fakeUploader struct {
	err     error
	uploads []uploadCall
	deletes []string
}

func (u *fakeUploader) Upload(_ context.Context, bucket storage.Bucket, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.uploads = append(u.uploads, uploadCall{Bucket: bucket, Key: key, ContentType: contentType, Size: len(data)})
	return &storage.UploadResult{
		Bucket:   string(bucket),
		Key:      key,
		Location: u.GetPublicURL(bucket, key),
	}, nil
}

func (u *fakeUploader) Delete(_ context.Context, bucket storage.Bucket, key string) error {
	if u.err != nil {
		return u.err
	}
	u.deletes = append(u.deletes, string(bucket)+"/"+key)
	return nil
}

func (u *fakeUploader) GetPublicURL(bucket storage.Bucket, key string) string {
	return storage.PublicURL("https://cdn.test", string(bucket), key)
}
