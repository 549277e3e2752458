package auth // package auth implements token issuance, validation and access policy decisions

import (
    "errors" // sentinel error definitions
    "math"   // integer check on decoded expiry values
    "time"   // expiry computation and clock reads

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Sentinel errors returned by Validate.  Handlers map these onto HTTP
// statuses: expired and invalid tokens become 401, a malformed expiry
// claim becomes 400 because the client sent a structurally broken token
// rather than a stale one.
var (
    ErrInvalidToken   = errors.New("could not validate user")
    ErrMalformedToken = errors.New("invalid token format")
    ErrTokenExpired   = errors.New("token expired")
)

// Claims is the typed identity record decoded from a validated access
// token.  It is owned by the request that decoded it and must never be
// persisted or shared across requests.  Role flags absent from the token
// payload are false.
type Claims struct {
    Username   string // sub claim – unique login name
    UserID     uint64 // id claim – users.id
    IsAdmin    bool   // is_admin claim
    IsSupplier bool   // is_supplier claim
    IsCustomer bool   // is_customer claim
    ExpiresAt  int64  // exp claim – unix seconds
}

// TokenService issues and validates HS256 access tokens.  The secret is
// symmetric: the same value signs and verifies.  Payloads are only
// integrity protected, not encrypted, so claims must never carry secrets.
type TokenService struct {
    secret []byte
}

// NewTokenService returns a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
    return &TokenService{secret: []byte(secret)}
}

// Issue builds and signs an HS256 JWT embedding the user's identity and
// all three role flags.  The expiry is an absolute unix timestamp in
// seconds, truncated to the whole second.  Embedding roles in the token
// trades a staleness window (role changes apply only on reissue) for
// skipping a database read on every authenticated call; the window is
// bounded by the TTL.
func (s *TokenService) Issue(username string, userID uint64, isAdmin, isSupplier, isCustomer bool, ttl time.Duration) (string, error) {
    // Construct the JWT claims.  MapClaims allows arbitrary key/value
    // pairs; the payload shape is fixed: sub, id, the three role flags
    // and exp as integer unix seconds.
    claims := jwt.MapClaims{
        "sub":         username,
        "id":          userID,
        "is_admin":    isAdmin,
        "is_supplier": isSupplier,
        "is_customer": isCustomer,
        "exp":         time.Now().UTC().Add(ttl).Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString(s.secret)
}

// Validate verifies the signature of a token and decodes its payload into
// Claims.  Failure classification:
//   - signature invalid, wrong algorithm or undecodable payload → ErrInvalidToken
//   - missing sub or id → ErrInvalidToken
//   - missing exp → ErrMalformedToken
//   - exp present but not an integer → ErrMalformedToken
//   - exp strictly before the current time → ErrTokenExpired
//
// A token whose exp equals the current second is still accepted.  Claim
// validation is done here rather than by the library so that an expired
// token is distinguishable from a malformed one.
func (s *TokenService) Validate(token string) (Claims, error) {
    parser := jwt.NewParser(
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithoutClaimsValidation(),
    )
    tok, err := parser.Parse(token, func(t *jwt.Token) (interface{}, error) {
        return s.secret, nil
    })
    if err != nil || !tok.Valid {
        return Claims{}, ErrInvalidToken
    }
    payload, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrInvalidToken
    }

    username, _ := payload["sub"].(string)
    id, idOK := asUint64(payload["id"])
    if username == "" || !idOK {
        return Claims{}, ErrInvalidToken
    }

    expRaw, ok := payload["exp"]
    if !ok {
        return Claims{}, ErrMalformedToken
    }
    exp, ok := asUnixSeconds(expRaw)
    if !ok {
        return Claims{}, ErrMalformedToken
    }
    if exp < time.Now().UTC().Unix() {
        return Claims{}, ErrTokenExpired
    }

    return Claims{
        Username:   username,
        UserID:     id,
        IsAdmin:    boolClaim(payload, "is_admin"),
        IsSupplier: boolClaim(payload, "is_supplier"),
        IsCustomer: boolClaim(payload, "is_customer"),
        ExpiresAt:  exp,
    }, nil
}

// asUint64 converts an id claim into a uint64.  JSON numbers decode as
// float64, so accept those when they hold a non-negative whole value.
func asUint64(v interface{}) (uint64, bool) {
    switch n := v.(type) {
    case float64:
        if n < 0 || math.Trunc(n) != n {
            return 0, false
        }
        return uint64(n), true
    case uint64:
        return n, true
    case int64:
        if n < 0 {
            return 0, false
        }
        return uint64(n), true
    }
    return 0, false
}

// asUnixSeconds reports whether an exp claim holds an integer timestamp.
// Fractional values and non-numeric types are rejected.
func asUnixSeconds(v interface{}) (int64, bool) {
    switch n := v.(type) {
    case float64:
        if math.Trunc(n) != n {
            return 0, false
        }
        return int64(n), true
    case int64:
        return n, true
    }
    return 0, false
}

// boolClaim reads an optional boolean claim, defaulting to false when the
// key is absent or not a boolean.
func boolClaim(payload jwt.MapClaims, key string) bool {
    b, _ := payload[key].(bool)
    return b
}
