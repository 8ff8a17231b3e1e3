// @title        Absensi Pegawai Portal API
// @version      1.0
// @description  Login, logout and role-guarded dashboards for admin and karyawan accounts.
// @BasePath     /
package main

import "github.com/absensi-pegawai/portal/cmd/portal/cmd"

func main() {
	cmd.Execute()
}
