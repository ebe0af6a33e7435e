package client

import (
	"io"
	"net/url"
	"strings"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/api/http/common"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

// Client talks to an arora server over HTTP.
type Client struct {
	url *url.URL
}

func New(address string) (*Client, error) {
	u, err := url.Parse(address)
	return &Client{url: u}, err
}

func (c *Client) CreateInterview(cir *structs.CreateInterviewRequest) (*structs.CreateInterviewResponse, error) {
	addr := c.addr(common.API_INTERVIEWS)
	var out structs.CreateInterviewResponse
	return &out, genericPost(addr, cir, &out)
}

func (c *Client) Interviews(q *structs.Query) ([]*structs.Interview, error) {
	addr := c.addr(common.API_INTERVIEWS)
	setQueryString(addr, q)
	var out []*structs.Interview
	return out, genericGet(addr, &out)
}

func (c *Client) Interview(id string) (*structs.Interview, error) {
	addr := c.addr(interviewPath(common.API_INTERVIEW, id))
	var out structs.Interview
	return &out, genericGet(addr, &out)
}

func (c *Client) SubmitRecording(id string, recording io.Reader) (*structs.Interview, error) {
	addr := c.addr(interviewPath(common.API_RECORDING, id))
	var out structs.Interview
	return &out, multipartPost(addr, common.RecordingField, id+".webm", recording, &out)
}

func (c *Client) SetState(id string, state structs.State) (*structs.Interview, error) {
	addr := c.addr(interviewPath(common.API_STATE, id))
	var out structs.Interview
	return &out, genericPatch(addr, &structs.SetStateRequest{State: state}, &out)
}

func (c *Client) Avatars() ([]*structs.Avatar, error) {
	addr := c.addr(common.API_AVATARS)
	var out []*structs.Avatar
	return out, genericGet(addr, &out)
}

func (c *Client) addr(path string) *url.URL {
	return &url.URL{Scheme: c.url.Scheme, Host: c.url.Host, Path: path}
}

func interviewPath(route, id string) string {
	return strings.Replace(route, "{id}", id, 1)
}
