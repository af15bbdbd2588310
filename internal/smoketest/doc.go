// Package smoketest содержит smoke-тесты системной целостности dbrename.
//
// Smoke-тесты проверяют:
//   - регистрацию всех команд в глобальном реестре;
//   - Name() и Description() каждого handler;
//   - структуру JSON-вывода ошибок валидации без подключения к серверу.
//
// Это НЕ unit-тесты отдельных handlers. Unit-тесты бизнес-логики находятся
// в handler_test.go каждого handler-пакета.
package smoketest
