// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq represents the request body for the /register endpoint.
// Field policies (required username, password length) are enforced by the
// usecase so every violation is reported per field at once.
type RegisterReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRes represents the response for a successful registration.
// The password never appears here in any form.
type RegisterRes struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
