package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mayank2130/user-leagues/middleware"
	"github.com/mayank2130/user-leagues/models"
)

func getMemberID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextMemberIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func getCommunityID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextCommunityIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func isAdmin(ctx *gin.Context) bool {
	role, _ := ctx.Get(middleware.ContextRoleKey)
	return role == models.RoleAdmin
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 20
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
