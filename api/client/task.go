package client

import (
	"context"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
)

const tasksPath = "/api/tasks"

func taskPath(id int64) string {
	return tasksPath + "/" + strconv.FormatInt(id, 10)
}

// ListTasks fetches every task owned by the token's user.
func (c *Client) ListTasks(ctx context.Context, token string) ([]domain.Task, error) {
	resp, err := c.do(ctx, fasthttp.MethodGet, tasksPath, token, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(resp, statusFallback(resp.status))
	}
	return transport.DecodeTaskList(resp.body)
}

// CreateTask returns the server record with its assigned id and timestamps.
func (c *Client) CreateTask(ctx context.Context, token string, req transport.TaskRequest) (*domain.Task, error) {
	resp, err := c.do(ctx, fasthttp.MethodPost, tasksPath, token, req)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(resp, "Failed to create task")
	}
	return transport.DecodeTask(resp.body)
}

// UpdateTask sends a full update and returns the server representation.
func (c *Client) UpdateTask(ctx context.Context, token string, id int64, req transport.TaskRequest) (*domain.Task, error) {
	resp, err := c.do(ctx, fasthttp.MethodPut, taskPath(id), token, req)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(resp, "Failed to update task")
	}
	return transport.DecodeTask(resp.body)
}

func (c *Client) DeleteTask(ctx context.Context, token string, id int64) error {
	resp, err := c.do(ctx, fasthttp.MethodDelete, taskPath(id), token, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return apiError(resp, "Failed to delete task")
	}
	return nil
}
