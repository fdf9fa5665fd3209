package dto

// RefreshReq は/users/refresh-tokenエンドポイントのリクエストボディを表します。
type RefreshReq struct {
	JWT string `json:"jwt" binding:"required"`
}
