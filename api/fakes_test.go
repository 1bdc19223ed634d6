package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"

	"task-gateway/domain"
)

type fakeTasks struct {
	tasks   map[string]domain.Task
	order   []string
	putErr  error
	listErr error
	getErr  error
	delErr  error
	calls   *[]string
}

func newFakeTasks(calls *[]string) *fakeTasks {
	return &fakeTasks{tasks: map[string]domain.Task{}, calls: calls}
}

func (f *fakeTasks) Put(ctx context.Context, task domain.Task) error {
	record(f.calls, "put")
	if f.putErr != nil {
		return f.putErr
	}
	if _, ok := f.tasks[task.ID]; !ok {
		f.order = append(f.order, task.ID)
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTasks) Get(ctx context.Context, id string) (domain.Task, error) {
	if f.getErr != nil {
		return domain.Task{}, f.getErr
	}
	task, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	return task, nil
}

func (f *fakeTasks) List(ctx context.Context) ([]domain.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.Task{}
	for _, id := range f.order {
		if task, ok := f.tasks[id]; ok {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTasks) Delete(ctx context.Context, id string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.tasks, id)
	return nil
}

type ackCall struct {
	id      string
	receipt string
}

type fakeQueue struct {
	sent       []domain.QueueMessage
	received   []domain.ReceivedMessage
	acks       []ackCall
	sendErr    error
	receiveErr error
	ackErr     error
	calls      *[]string
}

func (f *fakeQueue) Send(ctx context.Context, msg domain.QueueMessage) error {
	record(f.calls, "send")
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeQueue) Receive(ctx context.Context) ([]domain.ReceivedMessage, error) {
	return f.received, f.receiveErr
}

func (f *fakeQueue) Ack(ctx context.Context, id, receipt string) error {
	f.acks = append(f.acks, ackCall{id: id, receipt: receipt})
	return f.ackErr
}

type published struct {
	action  string
	payload any
}

type fakeTopic struct {
	published []published
	err       error
	calls     *[]string
}

func (f *fakeTopic) Publish(ctx context.Context, action string, payload any) error {
	record(f.calls, "publish")
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{action: action, payload: payload})
	return nil
}

type upload struct {
	key         string
	data        []byte
	contentType string
}

type fakeImages struct {
	uploads   []upload
	images    []domain.Image
	uploadErr error
	listErr   error
	prefix    string
}

func (f *fakeImages) Container() string { return "shopping-images" }

func (f *fakeImages) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, upload{key: key, data: data, contentType: contentType})
	return "http://blobs.local/shopping-images/" + key, nil
}

func (f *fakeImages) List(ctx context.Context, prefix string) ([]domain.Image, error) {
	f.prefix = prefix
	return f.images, f.listErr
}

func record(calls *[]string, name string) {
	if calls != nil {
		*calls = append(*calls, name)
	}
}

type fixture struct {
	e      *echo.Echo
	hook   *test.Hook
	tasks  *fakeTasks
	queue  *fakeQueue
	topic  *fakeTopic
	images *fakeImages
	calls  []string
}

func newFixture() *fixture {
	f := &fixture{}
	f.tasks = newFakeTasks(&f.calls)
	f.queue = &fakeQueue{calls: &f.calls}
	f.topic = &fakeTopic{calls: &f.calls}
	f.images = &fakeImages{}

	logger, hook := test.NewNullLogger()
	f.hook = hook
	f.e = echo.New()
	Register(f.e, Backends{Tasks: f.tasks, Queue: f.queue, Topic: f.topic, Images: f.images}, logger)
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) doRequest(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}
