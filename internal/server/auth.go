package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FalconsSky/penguins/internal/config"
	"github.com/FalconsSky/penguins/pkg/game"
)

// Reservation errors.
var (
	// ErrReservationInvalid reports a token that never was a reservation
	// for this server: bad signature, wrong issuer, malformed claims.
	ErrReservationInvalid = errors.New("invalid reservation")

	// ErrReservationUsed reports a well-formed token whose single use is
	// gone, either redeemed before or past its TTL.
	ErrReservationUsed = errors.New("reservation already used or expired")
)

// ReservationService issues and redeems the single-use tokens that admit a
// player to a prepared room. A token is an HS256 JWT carrying the room and
// the reserved team; its JTI is parked in Redis for the reservation TTL and
// deleted on first redeem, so a leaked token cannot seat a second player.
type ReservationService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	prefix string
	redis  *redis.Client
}

// reservationClaims is the payload of a reservation token.
type reservationClaims struct {
	RoomID string `json:"room_id"`
	Team   string `json:"team"`
	jwt.RegisteredClaims
}

// NewReservationService creates a reservation service from the server
// configuration. The TTL has been validated by config.Load.
func NewReservationService(cfg *config.Config, redisClient *redis.Client) *ReservationService {
	ttl, _ := cfg.Auth.ReservationTTLDuration()
	return &ReservationService{
		secret: []byte(cfg.Auth.JWTSecret),
		issuer: cfg.Auth.Issuer,
		ttl:    ttl,
		prefix: cfg.Redis.ReservationPrefix,
		redis:  redisClient,
	}
}

// Issue creates a reservation admitting one player to the given room as the
// given team.
func (r *ReservationService) Issue(ctx context.Context, roomID string, team game.Team) (string, error) {
	token, jti, err := r.sign(roomID, team)
	if err != nil {
		return "", fmt.Errorf("sign reservation: %w", err)
	}
	if err := r.redis.Set(ctx, r.key(jti), roomID, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("store reservation: %w", err)
	}
	return token, nil
}

// Redeem validates a reservation token and consumes its single use,
// returning the room and team it reserved.
func (r *ReservationService) Redeem(ctx context.Context, token string) (string, game.Team, error) {
	claims, err := r.verify(token)
	if err != nil {
		return "", game.TeamOne, err
	}

	team, err := game.ParseTeam(claims.Team)
	if err != nil {
		return "", game.TeamOne, fmt.Errorf("%w: %v", ErrReservationInvalid, err)
	}

	deleted, err := r.redis.Del(ctx, r.key(claims.ID)).Result()
	if err != nil {
		return "", game.TeamOne, fmt.Errorf("consume reservation: %w", err)
	}
	if deleted == 0 {
		return "", game.TeamOne, ErrReservationUsed
	}
	return claims.RoomID, team, nil
}

// sign builds and signs a reservation token, returning it with its JTI.
func (r *ReservationService) sign(roomID string, team game.Team) (string, string, error) {
	jti := uuid.NewString()
	now := time.Now()
	claims := reservationClaims{
		RoomID: roomID,
		Team:   team.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// verify parses a reservation token and checks signature, expiry and issuer.
func (r *ReservationService) verify(token string) (*reservationClaims, error) {
	claims := &reservationClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReservationInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrReservationInvalid
	}
	if claims.Issuer != r.issuer {
		return nil, fmt.Errorf("%w: issuer %q", ErrReservationInvalid, claims.Issuer)
	}
	if claims.ID == "" || claims.RoomID == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrReservationInvalid)
	}
	return claims, nil
}

func (r *ReservationService) key(jti string) string {
	return r.prefix + jti
}
