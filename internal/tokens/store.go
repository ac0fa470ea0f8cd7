// tokens — хранилище пары креденшелов (access/refresh) на стороне клиента.
//
// Семантика повторяет куки браузерного фронта: каждая запись живёт со своим
// сроком (access ≈ сутки, refresh ≈ неделя), протухшая запись читается как
// отсутствующая. Токены — непрозрачные строки, содержимое не валидируется.
//
// Инварианты:
//   - SetTokens перезаписывает обе записи атомарно;
//   - SetAccess трогает только access-запись (протокол refresh не переиздаёт
//     refresh-токен);
//   - Clear идемпотентен: чистка пустого хранилища — no-op, не ошибка;
//   - Authenticated — только проверка наличия access-токена, без валидации
//     подписи или серверного срока.
package tokens

import "time"

// Сроки жизни записей по умолчанию (контракт куки оригинального фронта).
const (
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Store — контракт хранилища токенов. Единственный разделяемый мутабельный
// ресурс клиента; все обращения к токенам идут только через эти операции.
type Store interface {
	// SetTokens безусловно перезаписывает обе записи с их сроками жизни.
	SetTokens(access, refresh string) error

	// SetAccess перезаписывает только access-запись; refresh остаётся как был.
	SetAccess(access string) error

	// AccessToken возвращает access-токен, ok=false — токена нет (или протух).
	AccessToken() (string, bool)

	// RefreshToken возвращает refresh-токен, ok=false — токена нет (или протух).
	RefreshToken() (string, bool)

	// Clear безусловно удаляет обе записи. Идемпотентен.
	Clear() error

	// Authenticated — true, если access-токен присутствует.
	// Проверка наличия, не валидности: токен может быть отвергнут сервером.
	Authenticated() bool
}

// entry — одна запись хранилища со сроком годности.
type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e entry) live(now time.Time) bool {
	return e.Value != "" && now.Before(e.ExpiresAt)
}
