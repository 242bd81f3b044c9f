package main

import (
	"github.com/blakestevenson/moviedetails/internal/moviedetails"
	"github.com/spf13/cobra"
)

func newTitleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "title <note>",
		Short: "Look the movie up by the note's file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnNote(cmd, args[0], moviedetails.CommandFetchByTitle, nil)
		},
	}
}

func newIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "id <note> <imdb-id>",
		Short: "Look the movie up by IMDb ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnNote(cmd, args[0], moviedetails.CommandFetchByID, map[string]string{
				moviedetails.ArgIdentifier: args[1],
			})
		},
	}
}
