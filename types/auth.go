package types

type LoginRequest struct {
	Code string `json:"code" binding:"required"` // 微信小程序 wx.login 返回的 code
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	OpenID      string `json:"openid"`
}

// WxLoginResponse 微信 code2session 响应
type WxLoginResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}
