package main

import "github.com/d60-Lab/mutual-circle/cmd/circle/commands"

// @title Mutual Circle API
// @version 1.0
// @description 互关可见的社交后端：关注、帖子与 Feed
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	commands.Execute()
}
