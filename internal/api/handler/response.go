package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CodeOK and CodeBusinessError are the envelope codes of a 200 response.
const (
	CodeOK            = 200
	CodeBusinessError = -1
)

// Envelope is the body of every response.
type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// DataEnvelope carries a payload. Data is always present, possibly null.
type DataEnvelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// PageEnvelope carries one page of a listing.
type PageEnvelope struct {
	Code      int    `json:"code"`
	Msg       string `json:"msg"`
	Data      any    `json:"data"`
	Total     int64  `json:"total"`
	TotalPage int    `json:"total_page"`
}

func ok(c echo.Context) error {
	return c.JSON(http.StatusOK, Envelope{Code: CodeOK, Msg: "OK"})
}

func success(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, Envelope{Code: CodeOK, Msg: msg})
}

func data(c echo.Context, v any) error {
	return c.JSON(http.StatusOK, DataEnvelope{Code: CodeOK, Msg: "OK", Data: v})
}

func pageList(c echo.Context, v any, total int64, totalPage int) error {
	return c.JSON(http.StatusOK, PageEnvelope{Code: CodeOK, Msg: "OK", Data: v, Total: total, TotalPage: totalPage})
}
