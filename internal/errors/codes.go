package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 클라이언트는 message 대신 이 코드로 분기한다

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH"   // 현재 비밀번호 불일치

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과
	ValidationInvalidSort  = "VALIDATION_INVALID_SORT"  // 허용되지 않은 정렬 기준
	ValidationInvalidRole  = "VALIDATION_INVALID_ROLE"  // 존재하지 않는 권한

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재

	// ==================== 매장 (STORE_) ====================
	StoreNotFound      = "STORE_NOT_FOUND"       // 매장 없음
	StoreOwnerNotFound = "STORE_OWNER_NOT_FOUND" // 매장 소유자(store_owner) 없음
	StoreAlreadyOwned  = "STORE_ALREADY_OWNED"   // 소유자가 이미 매장을 보유

	// ==================== 평점 (RATING_) ====================
	RatingInvalidValue = "RATING_INVALID_VALUE" // 1~5 범위 밖

	// ==================== 요청 제한 (RATE_) ====================
	RateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR" // 서버 오류
)
