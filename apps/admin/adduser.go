package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		if usr, err = cli.usrRepo.GetUserByEmail(ctx, email); err != nil {
			if errors.Cause(err) != user.ErrNotFound {
				return err
			}
			usr = user.User{
				Username:  uname,
				Email:     email,
				CreatedAt: now,
			}
		}
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		usr.IsActive = true
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}
	isActive := true
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &isActive)
	return err
}
