package main

import "github.com/killallgit/minewatch-api/cmd"

// @title           MineWatch API
// @version         1.0.0
// @description     Safety violation detection for underground mining video uploads
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/minewatch-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
