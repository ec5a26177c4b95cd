package supabase

import (
	"context"
	"log/slog"
	"net/http"
)

// User merepresentasikan akun pengguna milik Identity Provider.
// Hanya atribut yang dipakai sistem ini yang dipetakan.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session merepresentasikan sesi yang diterbitkan Identity Provider.
// AccessToken dibawa sebagai cookie `session` oleh browser.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// AuthClient adalah klien GoTrue (Identity Provider Supabase).
// Sign-up, sign-in, pengiriman OTP, verifikasi OTP, dan update password
// seluruhnya didelegasikan ke layanan ini.
type AuthClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string // dapat ditukar ke httptest.Server pada pengujian
	apiKey     string
}

// NewAuthClient membuat AuthClient baru.
func NewAuthClient(httpClient *http.Client, logger *slog.Logger, baseURL, apiKey string) *AuthClient {
	return &AuthClient{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// headers menyusun header standar GoTrue. Jika bearer kosong, anon key
// dipakai sebagai token Authorization.
func (c *AuthClient) headers(bearer string) http.Header {
	if bearer == "" {
		bearer = c.apiKey
	}
	h := http.Header{}
	h.Set("apikey", c.apiKey)
	h.Set("Authorization", "Bearer "+bearer)
	return h
}

// SignInWithPassword memverifikasi kredensial email+password pada provider
// dan mengembalikan sesi berisi access token.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	url := c.baseURL + "/auth/v1/token?grant_type=password"
	if err := apiRequest(ctx, c.httpClient, c.logger, http.MethodPost, url, c.headers(""), payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp mendaftarkan akun baru dengan nama lengkap sebagai metadata profil.
// Provider yang mengirim email verifikasi; pengguna tidak langsung login.
func (c *AuthClient) SignUp(ctx context.Context, email, password, fullName string) error {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"full_name": fullName,
		},
	}

	url := c.baseURL + "/auth/v1/signup"
	return apiRequest(ctx, c.httpClient, c.logger, http.MethodPost, url, c.headers(""), payload, nil)
}

// SendRecoveryOTP meminta provider mengirim kode pemulihan sekali pakai ke
// email. Provider tidak membocorkan ada/tidaknya akun pada respons.
func (c *AuthClient) SendRecoveryOTP(ctx context.Context, email string) error {
	payload := map[string]string{
		"email": email,
	}

	url := c.baseURL + "/auth/v1/recover"
	return apiRequest(ctx, c.httpClient, c.logger, http.MethodPost, url, c.headers(""), payload, nil)
}

// VerifyRecoveryOTP memverifikasi kode pemulihan (type: recovery) dan
// mengembalikan sesi pemulihan yang dipakai untuk update password.
func (c *AuthClient) VerifyRecoveryOTP(ctx context.Context, email, otp string) (*Session, error) {
	payload := map[string]string{
		"email": email,
		"token": otp,
		"type":  "recovery",
	}

	var session Session
	url := c.baseURL + "/auth/v1/verify"
	if err := apiRequest(ctx, c.httpClient, c.logger, http.MethodPost, url, c.headers(""), payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateUserPassword mengganti password akun pemilik accessToken.
func (c *AuthClient) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error {
	payload := map[string]string{
		"password": newPassword,
	}

	url := c.baseURL + "/auth/v1/user"
	return apiRequest(ctx, c.httpClient, c.logger, http.MethodPut, url, c.headers(accessToken), payload, nil)
}

// GetUser mengambil profil pemilik accessToken. Token kedaluwarsa atau
// palsu ditolak provider dengan status 401.
func (c *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	url := c.baseURL + "/auth/v1/user"
	if err := apiRequest(ctx, c.httpClient, c.logger, http.MethodGet, url, c.headers(accessToken), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyToken memastikan token sesi masih berlaku pada provider dan
// mengembalikan email pemiliknya. Dipakai gerbang sesi pada rute data.
func (c *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	user, err := c.GetUser(ctx, token)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}
