package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/internal/model"
)

// newTestStore opens a sqlite store backed by a file under t.TempDir().
// A file, not :memory:, because database/sql pools connections and each
// pooled connection would otherwise see its own empty memory database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *Store, username, email string) *model.User {
	t.Helper()

	now := time.Now().UTC()
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users.Insert(context.Background(), u))
	return u
}

func newTestProject(t *testing.T, s *Store, ownerID, name string, createdAt time.Time) *model.Project {
	t.Helper()

	p := &model.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    model.ProjectPlanning,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, s.Projects.Insert(context.Background(), p))
	return p
}

func newTestTask(t *testing.T, s *Store, projectID, creatorID, title string) *model.Task {
	t.Helper()

	now := time.Now().UTC()
	task := &model.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    model.TaskTodo,
		Priority:  model.PriorityMedium,
		ProjectID: projectID,
		CreatorID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Tasks.Insert(context.Background(), task))
	return task
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open("mysql", "whatever")
	require.Error(t, err)
}

func TestUserStore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "alice", "alice@example.com")

	byName, err := s.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "alice@example.com", byName.Email)
	assert.True(t, byName.IsActive)

	byEmail, err := s.Users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	// Missing rows come back as (nil, nil), not an error.
	missing, err := s.Users.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserStoreUpdate(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "alice", "alice@example.com")
	u.PasswordHash = "$2a$10$updatedhashupdatedhash"
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.Users.Update(ctx, u))

	got, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$2a$10$updatedhashupdatedhash", got.PasswordHash)
	assert.False(t, got.IsActive)

	ghost := *u
	ghost.ID = uuid.NewString()
	assert.Error(t, s.Users.Update(ctx, &ghost))
}

func TestUserStoreUniqueConstraints(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "alice", "alice@example.com")

	dup := *u
	dup.ID = uuid.NewString()
	dup.Email = "other@example.com"
	assert.Error(t, s.Users.Insert(ctx, &dup))

	dup = *u
	dup.ID = uuid.NewString()
	dup.Username = "other"
	assert.Error(t, s.Users.Insert(ctx, &dup))
}

func TestProjectStore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, s, "alice", "alice@example.com")
	other := newTestUser(t, s, "bob", "bob@example.com")

	base := time.Now().UTC()
	first := newTestProject(t, s, owner.ID, "First", base)
	second := newTestProject(t, s, owner.ID, "Second", base.Add(time.Minute))
	newTestProject(t, s, other.ID, "Bobs", base.Add(2*time.Minute))

	got, err := s.Projects.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "First", got.Name)
	assert.Nil(t, got.StartDate)

	missing, err := s.Projects.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := s.Projects.ListAll(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Newest first.
	mine, err := s.Projects.ListByOwner(ctx, owner.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	paged, err := s.Projects.ListByOwner(ctx, owner.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first.ID, paged[0].ID)
}

func TestProjectStoreUpdate(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, s, "alice", "alice@example.com")
	p := newTestProject(t, s, owner.ID, "Website", time.Now().UTC())

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	p.Name = "Website redesign"
	p.Status = model.ProjectInProgress
	p.StartDate = &start
	p.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.Projects.Update(ctx, p))

	got, err := s.Projects.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Website redesign", got.Name)
	assert.Equal(t, model.ProjectInProgress, got.Status)
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(start))
}

func TestTaskStore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	creator := newTestUser(t, s, "alice", "alice@example.com")
	assignee := newTestUser(t, s, "bob", "bob@example.com")
	p := newTestProject(t, s, creator.ID, "Website", time.Now().UTC())

	task := newTestTask(t, s, p.ID, creator.ID, "Fix login redirect")

	got, err := s.Tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Fix login redirect", got.Title)
	assert.Nil(t, got.AssigneeID)
	assert.Nil(t, got.DueDate)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task.Status = model.TaskInProgress
	task.AssigneeID = &assignee.ID
	task.DueDate = &due
	task.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.Tasks.Update(ctx, task))

	got, err = s.Tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, assignee.ID, *got.AssigneeID)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	byProject, err := s.Tasks.ListByProject(ctx, p.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	byAssignee, err := s.Tasks.ListByAssignee(ctx, assignee.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, byAssignee, 1)

	byCreator, err := s.Tasks.ListByCreator(ctx, creator.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, byCreator, 1)

	require.NoError(t, s.Tasks.Delete(ctx, task.ID))
	missing, err := s.Tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCommentStore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	author := newTestUser(t, s, "alice", "alice@example.com")
	p := newTestProject(t, s, author.ID, "Website", time.Now().UTC())
	task := newTestTask(t, s, p.ID, author.ID, "Fix login redirect")

	now := time.Now().UTC()
	c := &model.Comment{
		ID:        uuid.NewString(),
		Content:   "Looks good to me.",
		TaskID:    task.ID,
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Comments.Insert(ctx, c))

	got, err := s.Comments.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Looks good to me.", got.Content)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Username)

	byTask, err := s.Comments.ListByTask(ctx, task.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, byTask, 1)

	byAuthor, err := s.Comments.ListByAuthor(ctx, author.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 1)

	n, err := s.Comments.CountByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c.Content = "On second thought, needs work."
	c.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.Comments.Update(ctx, c))

	got, err = s.Comments.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "On second thought, needs work.", got.Content)

	require.NoError(t, s.Comments.Delete(ctx, c.ID))
	missing, err := s.Comments.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteProjectCascades(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, s, "alice", "alice@example.com")
	p := newTestProject(t, s, owner.ID, "Website", time.Now().UTC())
	task := newTestTask(t, s, p.ID, owner.ID, "Fix login redirect")

	now := time.Now().UTC()
	c := &model.Comment{
		ID:        uuid.NewString(),
		Content:   "First",
		TaskID:    task.ID,
		AuthorID:  owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Comments.Insert(ctx, c))

	require.NoError(t, s.Projects.Delete(ctx, p.ID))

	gotTask, err := s.Tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, gotTask)

	gotComment, err := s.Comments.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gotComment)
}
