package project

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var _ projectRepo = (*repoMock)(nil)

type repoMock struct {
	mutex    sync.Mutex
	Projects map[int]*Project
	lastID   int
	listErr  error
	calls    int
}

func newRepoMock() *repoMock {
	return &repoMock{
		Projects: make(map[int]*Project),
	}
}

func (r *repoMock) List(_ context.Context, limit int) ([]*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}

	projects := []*Project{}
	for _, p := range r.Projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID > projects[j].ID
	})
	if len(projects) > limit {
		projects = projects[:limit]
	}
	return projects, nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	p, ok := r.Projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (r *repoMock) GetBySlug(_ context.Context, slug string) (*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, p := range r.Projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, ErrProjectNotFound
}

func (r *repoMock) Create(_ context.Context, p *Project) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.slugTaken(p.Slug, 0) {
		return ErrSlugTaken
	}
	r.lastID++
	p.ID = r.lastID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	p.normalize()
	r.Projects[p.ID] = p
	return nil
}

func (r *repoMock) Update(_ context.Context, id int, p *Project) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	existing, ok := r.Projects[id]
	if !ok {
		return ErrProjectNotFound
	}
	if r.slugTaken(p.Slug, id) {
		return ErrSlugTaken
	}
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	p.normalize()
	r.Projects[id] = p
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.Projects[id]; !ok {
		return ErrProjectNotFound
	}
	delete(r.Projects, id)
	return nil
}

func (r *repoMock) slugTaken(slug string, exceptID int) bool {
	for id, p := range r.Projects {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

var errDBDown = errors.New("dial tcp 10.0.0.5:5432: connection refused")
