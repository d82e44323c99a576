package elements

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/cmsbulk/t4bulk/internal/t4"
)

// fakeAPI is an in-memory stand-in for the CMS client.
type fakeAPI struct {
	lists    map[int]*t4.List
	contents map[int]string
	sections map[int]string

	uploadResult *t4.UploadResult
	uploadErr    error
	linkErr      error
	nextLinkID   int

	listCalls   atomic.Int32
	uploadCalls atomic.Int32

	mu      sync.Mutex
	uploads []t4.UploadRequest
	links   []t4.ServerSideLink
}

var errNotFound = errors.New("not found")

func (f *fakeAPI) GetList(_ context.Context, id int) (*t4.List, error) {
	f.listCalls.Add(1)
	l, ok := f.lists[id]
	if !ok {
		return nil, errNotFound
	}
	return l, nil
}

func (f *fakeAPI) Upload(_ context.Context, req t4.UploadRequest) (*t4.UploadResult, error) {
	f.uploadCalls.Add(1)
	f.mu.Lock()
	f.uploads = append(f.uploads, req)
	f.mu.Unlock()
	return f.uploadResult, f.uploadErr
}

func (f *fakeAPI) GetContentWithoutSection(_ context.Context, id int, _ string) (*t4.Content, error) {
	name, ok := f.contents[id]
	if !ok {
		return nil, errNotFound
	}
	return &t4.Content{ID: id, Name: name}, nil
}

func (f *fakeAPI) GetSection(_ context.Context, id int) (*t4.Section, error) {
	name, ok := f.sections[id]
	if !ok {
		return nil, errNotFound
	}
	return &t4.Section{ID: id, Name: name}, nil
}

func (f *fakeAPI) SetServerSideLink(_ context.Context, link t4.ServerSideLink) (*t4.ServerSideLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, link)
	if f.linkErr != nil {
		return nil, f.linkErr
	}
	link.ID = f.nextLinkID
	return &link, nil
}

func colours() *t4.List {
	return &t4.List{
		ID: 7,
		Items: []t4.ListItem{
			{ID: 1, Name: "red", Value: "r"},
			{ID: 2, Name: "blue", Value: "b"},
			{ID: 3, Name: "Dark Green", Value: "green"},
		},
	}
}
