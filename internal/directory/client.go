// Package directory talks to the external identity/business directory. Every
// lookup degrades to "not found" on any transport or non-200 outcome; no
// retries.
package directory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Member struct {
	CardNo       int64  `json:"mbrcardno"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
}

type Business struct {
	BusinessID   int64  `json:"business_id"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

func (c *Client) get(path string, params url.Values, out interface{}) bool {
	resp, err := c.http.Get(c.baseURL + path + "?" + params.Encode())
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("directory lookup failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("directory lookup rejected")
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("directory response undecodable")
		return false
	}
	return true
}

// MemberByCard resolves a member profile by card number, nil when unknown.
func (c *Client) MemberByCard(cardNo int64) *Member {
	var member Member
	params := url.Values{"card_number": {fmt.Sprintf("%d", cardNo)}}
	if !c.get("/cardno/member-details/", params, &member) || member.CardNo == 0 {
		return nil
	}
	return &member
}

// MemberByMobile resolves a member profile by mobile number, nil when unknown.
func (c *Client) MemberByMobile(mobile string) *Member {
	var member Member
	params := url.Values{"mobile_number": {mobile}}
	if !c.get("/member-details/", params, &member) || member.CardNo == 0 {
		return nil
	}
	return &member
}

// BusinessByID resolves a business profile, nil when unknown.
func (c *Client) BusinessByID(businessID int64) *Business {
	var business Business
	params := url.Values{"business_id": {fmt.Sprintf("%d", businessID)}}
	if !c.get("/business/details/", params, &business) || business.BusinessID == 0 {
		return nil
	}
	return &business
}
