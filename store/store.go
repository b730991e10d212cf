// Package store owns the ordered task list and the category set.
//
// Every mutation is applied locally first and then mirrored to the Remote
// on a best-effort basis when a user is signed in. Remote failures are
// logged and swallowed: local state stays the source of truth until the
// next Reload or identity change refetches it.
package store

import (
	"clementus360/doit/config"
	"clementus360/doit/types"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultCategory is used by Add when no category is given.
	DefaultCategory = "Personal"

	// AllCategories is the query filter matching every category.
	AllCategories = "All"
)

// Snapshot is a copy of the store state at one point in time.
type Snapshot struct {
	Tasks      []types.Task
	Categories []string
	Identity   *types.Identity
}

// Authenticated reports whether the snapshot belongs to a signed-in user.
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}

// Store is safe for concurrent use.
type Store struct {
	remote          Remote
	celebrator      Celebrator
	log             *logrus.Entry
	newID           func() string
	seed            []types.Task
	defaultCategory string

	mu         sync.Mutex
	tasks      []types.Task
	categories []string
	identity   *types.Identity
	generation int    // bumped on every identity change
	version    uint64 // bumped on every published change

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	pubMu     sync.Mutex
	published uint64
}

type Option func(*Store)

func WithLogger(l *logrus.Entry) Option {
	return func(s *Store) { s.log = l }
}

func WithCelebrator(c Celebrator) Option {
	return func(s *Store) { s.celebrator = c }
}

// WithSeed replaces the guest seed. Ids and positions are reassigned.
func WithSeed(seed []types.Task) Option {
	return func(s *Store) { s.seed = slices.Clone(seed) }
}

// WithIDGenerator overrides how local task ids are made. fn is called with
// the store lock held.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithDefaultCategory changes the category used by Add when none is given.
// Names outside the built-in set are ignored.
func WithDefaultCategory(name string) Option {
	return func(s *Store) {
		if IsBuiltinCategory(name) {
			s.defaultCategory = name
		}
	}
}

// DefaultSeed is the list a guest starts with.
func DefaultSeed() []types.Task {
	return []types.Task{
		{Text: "Explore the DoIt dashboard", Category: DefaultCategory},
		{Text: "Try adding a custom task below", Category: DefaultCategory, Completed: true},
	}
}

// New creates a store in guest mode holding the seed tasks. remote may be
// nil, in which case the store never mirrors anything.
func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:          remote,
		log:             config.Component("store"),
		newID:           newGuestID,
		seed:            DefaultSeed(),
		defaultCategory: DefaultCategory,
		subs:            make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.seedTasks()
	s.categories = slices.Clone(BuiltinCategories)
	return s
}

func newGuestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) seedTasks() []types.Task {
	tasks := make([]types.Task, len(s.seed))
	for i, t := range s.seed {
		t.ID = s.newID()
		t.Position = i
		if t.Category == "" {
			t.Category = s.defaultCategory
		}
		tasks[i] = t
	}
	return tasks
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Tasks:      slices.Clone(s.tasks),
		Categories: slices.Clone(s.categories),
	}
	if s.identity != nil {
		ident := *s.identity
		snap.Identity = &ident
	}
	return snap
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that made the change and must not block or call
// back into the store's mutators. Snapshots arrive in the order the changes
// were made; one that is older than a snapshot already delivered is skipped.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// changedLocked stamps a new version and returns the snapshot to publish
// with it.
func (s *Store) changedLocked() (Snapshot, uint64) {
	s.version++
	return s.snapshotLocked(), s.version
}

func (s *Store) publish(snap Snapshot, version uint64) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if version <= s.published {
		return
	}
	s.published = version

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// mirrorTarget returns the identity to mirror for, or nil in guest mode.
func (s *Store) mirrorTarget(ident *types.Identity) *types.Identity {
	if ident == nil || s.remote == nil {
		return nil
	}
	return ident
}

// Add appends a task with the given text and category. Whitespace-only text
// and unknown categories are refused and reported with ok == false. An empty
// category means the default one.
//
// When signed in the task is inserted remotely first so the local record
// carries the database id. If the insert fails the task is kept locally
// with a generated id.
func (s *Store) Add(ctx context.Context, text, category string) (task types.Task, ok bool) {
	if strings.TrimSpace(text) == "" {
		s.log.Debug("Refusing task with empty text")
		return types.Task{}, false
	}
	if category == "" {
		category = s.defaultCategory
	}

	s.mu.Lock()
	if !slices.Contains(s.categories, category) {
		s.mu.Unlock()
		s.log.WithField("category", category).Debug("Refusing task with unknown category")
		return types.Task{}, false
	}
	task = types.Task{Text: text, Category: category, Position: len(s.tasks)}
	ident := s.mirrorTarget(s.identity)
	gen := s.generation
	s.mu.Unlock()

	inserted := false
	if ident != nil {
		saved, err := s.remote.InsertTask(ctx, *ident, task)
		if err != nil {
			s.log.WithError(err).Warn("Remote insert failed, keeping task local")
		} else {
			task.ID = saved.ID
			inserted = true
		}
	}

	s.mu.Lock()
	if task.ID == "" {
		task.ID = s.newID()
	}
	if s.generation != gen {
		// identity changed while inserting; the cutover owns the list now
		s.mu.Unlock()
		s.log.Debug("Identity changed during add, dropping local append")
		return task, true
	}
	sent := task.Position
	task.Position = len(s.tasks)
	s.tasks = append(s.tasks, task)
	snap, ver := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap, ver)

	// another add landed while the insert was in flight
	if inserted && task.Position != sent {
		if err := s.remote.UpdateTask(ctx, *ident, task.ID, map[string]any{"position": task.Position}); err != nil {
			s.log.WithError(err).WithField("task_id", task.ID).Warn("Remote position update failed")
		}
	}
	return task, true
}

// Toggle flips the completed flag of the task with the given id. Unknown ids
// are ignored.
func (s *Store) Toggle(ctx context.Context, id string) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	completed := s.tasks[i].Completed
	ident := s.mirrorTarget(s.identity)
	snap, ver := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap, ver)
	if completed && s.celebrator != nil {
		s.celebrator.Fire()
	}

	if ident != nil {
		if err := s.remote.UpdateTask(ctx, *ident, id, map[string]any{"completed": completed}); err != nil {
			s.log.WithError(err).WithField("task_id", id).Warn("Remote toggle failed")
		}
	}
}

// Remove deletes the task with the given id. Remaining positions are not
// renumbered.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	ident := s.mirrorTarget(s.identity)
	snap, ver := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap, ver)

	if ident != nil {
		if err := s.remote.DeleteTask(ctx, *ident, id); err != nil {
			s.log.WithError(err).WithField("task_id", id).Warn("Remote delete failed")
		}
	}
}

// Reorder replaces the list order with ids, which must be a permutation of
// the current task ids. Anything else is refused as a whole. Every task's
// position becomes its index in ids and, when signed in, all records are
// written back in one upsert.
func (s *Store) Reorder(ctx context.Context, ids []string) bool {
	s.mu.Lock()
	byID := make(map[string]types.Task, len(s.tasks))
	for _, t := range s.tasks {
		byID[t.ID] = t
	}
	if len(ids) != len(s.tasks) {
		s.mu.Unlock()
		s.log.Debug("Refusing reorder: id count does not match")
		return false
	}

	ordered := make([]types.Task, 0, len(ids))
	for i, id := range ids {
		t, ok := byID[id]
		if !ok {
			s.mu.Unlock()
			s.log.WithField("task_id", id).Debug("Refusing reorder: unknown or repeated id")
			return false
		}
		delete(byID, id)
		t.Position = i
		ordered = append(ordered, t)
	}

	s.tasks = ordered
	ident := s.mirrorTarget(s.identity)
	snap, ver := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap, ver)

	if ident != nil {
		if err := s.remote.UpsertTasks(ctx, *ident, snap.Tasks); err != nil {
			s.log.WithError(err).Warn("Remote reorder failed")
		}
	}
	return true
}

// ClearCompleted drops every completed task, keeping the relative order of
// the rest. It does not ask for confirmation.
func (s *Store) ClearCompleted(ctx context.Context) {
	s.mu.Lock()
	s.tasks = slices.DeleteFunc(s.tasks, func(t types.Task) bool { return t.Completed })
	ident := s.mirrorTarget(s.identity)
	snap, ver := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap, ver)

	if ident != nil {
		if err := s.remote.DeleteCompletedTasks(ctx, *ident); err != nil {
			s.log.WithError(err).Warn("Remote clear failed")
		}
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t types.Task) bool { return t.ID == id })
}

// SetIdentity switches the store to ident. This is a hard cutover: local
// state is discarded, including unsynced guest edits. A signed-in identity
// loads its tasks and categories from the remote; nil returns to the guest
// seed.
func (s *Store) SetIdentity(ctx context.Context, ident *types.Identity) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.categories = slices.Clone(BuiltinCategories)

	if ident == nil {
		s.identity = nil
		s.tasks = s.seedTasks()
		snap, ver := s.changedLocked()
		s.mu.Unlock()

		s.log.Info("Switched to guest mode")
		s.publish(snap, ver)
		return
	}

	cp := *ident
	s.identity = &cp
	s.tasks = nil
	s.mu.Unlock()

	s.log.WithField("user_id", cp.UserID).Info("Loading tasks for signed-in user")
	s.load(ctx, cp, gen)
}

// Reload refetches the signed-in user's state. Guest stores have nothing
// to reload.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return
	}
	ident := *s.identity
	gen := s.generation
	s.mu.Unlock()

	s.load(ctx, ident, gen)
}

func (s *Store) load(ctx context.Context, ident types.Identity, gen int) {
	var (
		tasks []types.Task
		names []string
	)
	if s.remote != nil {
		var err error
		tasks, err = s.remote.ListTasks(ctx, ident)
		if err != nil {
			s.log.WithError(err).Error("Failed to fetch tasks")
			tasks = nil
		}
		names, err = s.remote.ListCategories(ctx, ident)
		if err != nil {
			s.log.WithError(err).Error("Failed to fetch categories")
			names = nil
		}
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.tasks = tasks
	s.categories = mergeCategories(names)
	snap, ver := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap, ver)
}

// Attach adopts src's current identity and follows its changes until the
// returned function is called.
func (s *Store) Attach(ctx context.Context, src SessionSource) func() {
	cancel := src.OnChange(func(ident *types.Identity) {
		s.SetIdentity(ctx, ident)
	})
	if cur := src.Current(); cur != nil {
		s.SetIdentity(ctx, cur)
	}
	return cancel
}
