package model

// AccessToken is the object embedded in the signed session token.
type AccessToken struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type OAuth2URLRequest struct {
	Provider string `json:"provider"`
}

type OAuth2URLResponse struct {
	URL string `json:"auth_url"`
}

type OAuth2CallbackRequest struct {
	State string `json:"state"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type OAuth2CallbackResponse struct {
	RedirectURL string `json:"-"`

	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

func (r OAuth2CallbackResponse) RedirectLocation() string {
	return r.RedirectURL
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type GetConnectionStatusRequest struct{}

type GetConnectionStatusResponse struct {
	Connected bool     `json:"connected"`
	Status    string   `json:"status"`
	User      *User    `json:"user,omitempty"`
	Email     string   `json:"email,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
	ExpiresAt int64    `json:"expires_at,omitempty"`
}

type DisconnectRequest struct{}

type DisconnectResponse struct{}
