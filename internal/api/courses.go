package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"edulearn-cli/internal/domain"
)

func (c *Client) ListCourses(ctx context.Context, search string, page, pageSize int) ([]domain.Course, int, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/courses/"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload paged[domain.Course]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, 0, err
	}
	return payload.Results, payload.Count, nil
}

// GetCourse returns a course with its full lesson tree.
func (c *Client) GetCourse(ctx context.Context, id int64) (domain.Course, error) {
	var course domain.Course
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/courses/%d/", id), nil, &course); err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func (c *Client) GetResource(ctx context.Context, id int64) (domain.Resource, error) {
	var resource domain.Resource
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/resources/%d/", id), nil, &resource); err != nil {
		return domain.Resource{}, err
	}
	return resource, nil
}

// CourseUpload is a create/update payload prepared by the admin course
// form: scalar fields plus an optional banner image. With a banner the
// request goes out as multipart/form-data, otherwise as plain JSON.
type CourseUpload struct {
	ID     int64
	Fields map[string]string
	Banner *FileAttachment
}

func (c *Client) CreateCourse(ctx context.Context, upload CourseUpload) (domain.Course, error) {
	return c.sendCourse(ctx, http.MethodPost, "/api/courses/", upload)
}

func (c *Client) UpdateCourse(ctx context.Context, upload CourseUpload) (domain.Course, error) {
	return c.sendCourse(ctx, http.MethodPut, fmt.Sprintf("/api/courses/%d/", upload.ID), upload)
}

func (c *Client) sendCourse(ctx context.Context, method, path string, upload CourseUpload) (domain.Course, error) {
	var course domain.Course
	if upload.Banner != nil {
		if err := c.doMultipart(ctx, method, path, upload.Fields, upload.Banner, &course); err != nil {
			return domain.Course{}, err
		}
		return course, nil
	}
	if err := c.doJSON(ctx, method, path, upload.Fields, &course); err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func (c *Client) ListLanguages(ctx context.Context) ([]domain.Language, error) {
	var payload paged[domain.Language]
	if err := c.doJSON(ctx, http.MethodGet, "/api/languages/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var payload paged[domain.Tag]
	if err := c.doJSON(ctx, http.MethodGet, "/api/tags/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}
