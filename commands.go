package main

import (
	"github.com/bwmarrin/discordgo"

	"github.com/zephyrtronium/saber/command"
)

// builtins is the list of all commands.
var builtins = []command.Spec{
	{
		Name:        "hype",
		Aliases:     []string{"hypu", "train"},
		Category:    "Fun",
		Help:        "All aboard the hype train.",
		Permissions: discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks,
		Fn:          command.Hype,
	},
	{
		Name:        "help",
		Aliases:     []string{"h", "commands"},
		Category:    "General",
		Usage:       "[command]",
		Help:        "List commands, or describe one.",
		Permissions: discordgo.PermissionSendMessages,
		Fn:          command.Help,
	},
	{
		Name:        "about",
		Category:    "General",
		Help:        "Who am I?",
		Permissions: discordgo.PermissionSendMessages,
		Fn:          command.About,
	},
	{
		Name:      "cache",
		Category:  "Owner",
		Help:      "Report message and user cache statistics.",
		OwnerOnly: true,
		Fn:        command.CacheStats,
	},
}
