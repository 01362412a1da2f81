package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"

	"hrtool/internal/amqp"
	"hrtool/internal/core"
)

var cantons = []string{"Ticino", "Zurich", "Bern", "Vaud", "Geneva", "Lucerne", "Basel-Stadt", "Graubünden"}

func newSeedCmd(a *app) *cobra.Command {
	var (
		rows int
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Append generated demo employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rows < 1 {
				return fmt.Errorf("--rows must be at least 1")
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			employees, err := fakeEmployees(faker.NewWithSeed(rand.NewSource(seed)), rows, time.Now())
			if err != nil {
				return err
			}
			table, err := a.svc.AppendAll(cmd.Context(), employees, amqp.ReasonSeed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d employees. Total rows: %d\n", len(employees), table.Len())
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 20, "number of employees to generate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}

// fakeEmployees builds valid records through the same validation as the
// add-employee form.
func fakeEmployees(gen faker.Faker, n int, now time.Time) ([]core.Employee, error) {
	person := gen.Person()
	earliest := now.AddDate(-30, 0, 0)
	out := make([]core.Employee, 0, n)
	for i := 0; i < n; i++ {
		workload := core.Workloads[gen.IntBetween(0, len(core.Workloads)-1)]
		hired := gen.Time().TimeBetween(earliest, now)
		form := core.EmployeeForm{
			FirstName:     person.FirstName(),
			LastName:      person.LastName(),
			Residence:     gen.RandomStringElement(cantons),
			Age:           gen.IntBetween(core.MinAge, core.MaxAge),
			Department:    gen.RandomStringElement(core.Departments),
			Seniority:     gen.RandomStringElement(core.SeniorityLevels),
			Workload:      workload,
			VacationTaken: gen.IntBetween(0, core.Entitlement(workload)),
			HireDate:      core.NewDate(hired.Year(), int(hired.Month()), hired.Day()),
		}
		e, err := core.NewEmployee(form)
		if err != nil {
			return nil, fmt.Errorf("generated employee %d: %w", i+1, err)
		}
		out = append(out, e)
	}
	return out, nil
}
