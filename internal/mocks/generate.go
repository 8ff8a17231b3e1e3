// Package mocks holds generated GoMock doubles for the core ports.
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=credential_store_mock.go github.com/absensi-pegawai/portal/internal/core/ports AdminRepository,EmployeeRepository
