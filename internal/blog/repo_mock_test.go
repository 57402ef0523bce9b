package blog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var _ blogRepo = (*repoMock)(nil)

var errDBDown = errors.New("dial tcp 10.0.0.5:5432: connection refused")

type repoMock struct {
	Posts       map[int]*Blog
	Views       map[int][]View
	lastID      int
	latestCalls int
	failing     bool
	mutex       sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts: make(map[int]*Blog),
		Views: make(map[int][]View),
	}
}

func (r *repoMock) PostsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts)
}

func (r *repoMock) sorted() []*Blog {
	blogs := []*Blog{}
	for id := range r.Posts {
		blogs = append(blogs, r.Posts[id])
	}
	sort.Slice(blogs, func(i, j int) bool {
		if blogs[i].Date.Equal(blogs[j].Date.Time) {
			return blogs[i].ID > blogs[j].ID
		}
		return blogs[i].Date.After(blogs[j].Date.Time)
	})
	return blogs
}

func (r *repoMock) Latest(_ context.Context, limit int) ([]*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.latestCalls++
	if r.failing {
		return nil, errDBDown
	}
	blogs := r.sorted()
	if len(blogs) > limit {
		blogs = blogs[:limit]
	}
	return blogs, nil
}

func (r *repoMock) BlogsCount(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts), nil
}

func (r *repoMock) GetBlogsPage(_ context.Context, page, size int) ([]*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	allPosts := r.sorted()
	startIndex := (page - 1) * size
	// overflow
	if startIndex >= len(allPosts) {
		return []*Blog{}, nil
	}
	endIndex := startIndex + size
	if endIndex > len(allPosts) {
		endIndex = len(allPosts)
	}
	return allPosts[startIndex:endIndex], nil
}

func (r *repoMock) GetBlog(_ context.Context, id int) (*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	b, ok := r.Posts[id]
	if !ok {
		return nil, ErrBlogNotFound
	}
	return b, nil
}

func (r *repoMock) GetBlogBySlug(_ context.Context, slug string) (*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, b := range r.Posts {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, ErrBlogNotFound
}

func (r *repoMock) AddBlog(_ context.Context, blog *Blog) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.slugTaken(blog.Slug, 0) {
		return ErrSlugTaken
	}
	r.lastID++
	blog.ID = r.lastID
	if blog.Date.IsZero() {
		now := time.Now().UTC()
		blog.Date = NewDate(now.Year(), now.Month(), now.Day())
	}
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt
	blog.normalize()
	r.Posts[blog.ID] = blog
	return nil
}

func (r *repoMock) UpdateBlog(_ context.Context, id int, blog *Blog) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	existing, ok := r.Posts[id]
	if !ok {
		return ErrBlogNotFound
	}
	if r.slugTaken(blog.Slug, id) {
		return ErrSlugTaken
	}
	blog.ID = id
	if blog.Date.IsZero() {
		blog.Date = existing.Date
	}
	blog.CreatedAt = existing.CreatedAt
	blog.UpdatedAt = time.Now()
	blog.normalize()
	r.Posts[id] = blog
	return nil
}

func (r *repoMock) DeleteBlog(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.Posts[id]; !ok {
		return ErrBlogNotFound
	}
	delete(r.Posts, id)
	delete(r.Views, id)
	return nil
}

func (r *repoMock) AddView(_ context.Context, view View) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.Posts[view.BlogID]; !ok {
		return ErrBlogNotFound
	}
	r.Views[view.BlogID] = append(r.Views[view.BlogID], view)
	return nil
}

func (r *repoMock) ViewsCount(_ context.Context, blogID int) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.failing {
		return -1, errDBDown
	}
	return len(r.Views[blogID]), nil
}

func (r *repoMock) ClearViews(_ context.Context, blogID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.Views, blogID)
	return nil
}

func (r *repoMock) slugTaken(slug string, exceptID int) bool {
	for id, b := range r.Posts {
		if b.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}
