package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/gmeta/backoffice/internal/infrastructure/db/postgres"
)

const statusTimeout = 3 * time.Second

var errNotConfigured = errors.New("not configured")

// CommonHandler serves the unauthenticated probes.
type CommonHandler struct {
	db    *gorm.DB
	redis redis.Cmdable
	mongo *mongo.Database
	log   zerolog.Logger
}

// NewCommonHandler accepts nil for any store that is not configured; it is
// then reported as down.
func NewCommonHandler(db *gorm.DB, rdb redis.Cmdable, mdb *mongo.Database, log zerolog.Logger) *CommonHandler {
	return &CommonHandler{db: db, redis: rdb, mongo: mdb, log: log}
}

// Ping is the liveness probe.
//
// @Summary      Liveness
// @Tags         common
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /ping [get]
func (h *CommonHandler) Ping(c echo.Context) error {
	return success(c, "pong")
}

// IP echoes the caller address, honouring X-Forwarded-For.
//
// @Summary      Client IP
// @Tags         common
// @Produce      json
// @Success      200  {object}  DataEnvelope{data=ipResponse}
// @Router       /ip [get]
func (h *CommonHandler) IP(c echo.Context) error {
	return data(c, ipResponse{IP: c.RealIP()})
}

// Status reports whether each backing store answers.
//
// @Summary      Dependency status
// @Tags         common
// @Produce      json
// @Success      200  {object}  DataEnvelope{data=statusResponse}
// @Failure      503  {object}  DataEnvelope{data=statusResponse}
// @Router       /status [get]
func (h *CommonHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), statusTimeout)
	defer cancel()

	var st statusResponse

	// --- Relational store ---
	if err := h.pingDB(ctx); err != nil {
		h.log.Warn().Err(err).Msg("status: db unreachable")
	} else {
		st.DB = true
		st.Migrations = postgres.SchemaReady(h.db.WithContext(ctx))
	}

	// --- Redis ping ---
	if h.redis == nil {
		h.log.Warn().Msg("status: redis not configured")
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		h.log.Warn().Err(err).Msg("status: redis unreachable")
	} else {
		st.Redis = true
	}

	// --- MongoDB ping ---
	if h.mongo == nil {
		h.log.Warn().Msg("status: mongo not configured")
	} else if err := h.mongo.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		h.log.Warn().Err(err).Msg("status: mongo unreachable")
	} else {
		st.Mongo = true
	}

	// Mongo only carries the audit trail, so it does not fail the probe.
	code := http.StatusOK
	if !st.DB || !st.Redis || !st.Migrations {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, DataEnvelope{Code: code, Msg: http.StatusText(code), Data: st})
}

func (h *CommonHandler) pingDB(ctx context.Context) error {
	if h.db == nil {
		return errNotConfigured
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
