// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/cmdbind/internal/command"
)

var _ = Describe("Command grammar", func() {
	var (
		reg    *command.Registry
		sender *command.WriterSender
		out    *bytes.Buffer
		got    *command.Args
		ctx    context.Context
	)

	capture := func(_ context.Context, args *command.Args) error {
		got = args
		return nil
	}

	BeforeEach(func() {
		reg = command.NewRegistry()
		out = &bytes.Buffer{}
		sender = command.NewWriterSender("alice", true, out)
		got = nil
		ctx = context.Background()
	})

	Describe("flags", func() {
		BeforeEach(func() {
			reg.MustRegister(command.Definition{
				Name: "test:kick",
				Params: []command.ParameterSpec{
					command.FlagParam("force", "f", "force"),
					command.PositionalParam("target", command.TypeString),
				},
			}, capture)
		})

		DescribeTable("bind the flag from any alias",
			func(input string, force bool) {
				Expect(reg.Invoke(ctx, sender, "kick", input)).To(Succeed())
				Expect(got.Bool("force")).To(Equal(force))
				Expect(got.String("target")).To(Equal("x"))
			},
			Entry("short alias", "-f x", true),
			Entry("long alias", "--force x", true),
			Entry("no alias", "x", false),
		)

		It("rejects undeclared short flags", func() {
			err := reg.Invoke(ctx, sender, "kick", "-z x")
			Expect(command.IsParseFault(err)).To(BeTrue())
			Expect(command.FaultCode(err)).To(Equal(command.CodeUnrecognizedShortFlag))
			Expect(got).To(BeNil())
		})
	})

	Describe("optionals", func() {
		BeforeEach(func() {
			reg.MustRegister(command.Definition{
				Name: "test:dig",
				Params: []command.ParameterSpec{
					command.PositionalParam("target", command.TypeString),
					command.OptionalParam("depth", command.TypeInt, 1),
				},
			}, capture)
		})

		It("binds --name=value", func() {
			Expect(reg.Invoke(ctx, sender, "dig", "--depth=10 x")).To(Succeed())
			Expect(got.Int("depth")).To(Equal(10))
			Expect(got.String("target")).To(Equal("x"))
		})

		It("falls back to the default", func() {
			Expect(reg.Invoke(ctx, sender, "dig", "x")).To(Succeed())
			Expect(got.Int("depth")).To(Equal(1))
		})

		It("preserves the overflow cause", func() {
			err := reg.Invoke(ctx, sender, "dig", "--depth=2147483648 x")
			Expect(command.FaultCode(err)).To(Equal(command.CodeIntegerOverflow))
			Expect(errors.Is(err, strconv.ErrRange)).To(BeTrue())
		})
	})

	Describe("a command without parameters", func() {
		BeforeEach(func() {
			reg.MustRegister(command.Definition{Name: "test:ping"}, capture)
		})

		It("accepts blank input", func() {
			Expect(reg.Invoke(ctx, sender, "ping", "  ")).To(Succeed())
			Expect(got).NotTo(BeNil())
		})

		It("rejects any other input", func() {
			err := reg.Invoke(ctx, sender, "ping", "extra")
			Expect(command.FaultCode(err)).To(Equal(command.CodeTooManyArguments))
			Expect(got).To(BeNil())
		})
	})

	Describe("registration", func() {
		It("rejects conflicting aliases before any invocation", func() {
			_, err := reg.Register(command.Definition{
				Name: "test:bad",
				Params: []command.ParameterSpec{
					command.FlagParam("a", "x"),
					command.FlagParam("b", "x"),
				},
			}, capture)
			Expect(err).To(HaveOccurred())
			_, ok := reg.Get("test:bad")
			Expect(ok).To(BeFalse())
		})

		It("accepts new argument types through the parser registry", func() {
			command.RegisterParser(reg.Parsers(), "upper", func(cur *command.Cursor, dirs command.Directives) (string, error) {
				s, err := command.ParseString(cur, dirs)
				return string(bytes.ToUpper([]byte(s))), err
			})
			reg.MustRegister(command.Definition{
				Name:   "test:shout",
				Params: []command.ParameterSpec{command.VariadicParam("words", "upper")},
			}, capture)

			Expect(reg.Invoke(ctx, sender, "shout", `hi "there you"`)).To(Succeed())
			Expect(got.Strings("words")).To(Equal([]string{"HI", "THERE YOU"}))
		})
	})

	Describe("handler faults", func() {
		It("are separated from input faults", func() {
			cause := errors.New("boom")
			reg.MustRegister(command.Definition{Name: "test:fail"}, func(context.Context, *command.Args) error {
				return cause
			})

			err := reg.Invoke(ctx, sender, "fail", "")
			Expect(command.IsExecuteFault(err)).To(BeTrue())
			Expect(command.IsParseFault(err)).To(BeFalse())
			Expect(err).To(MatchError(cause))
		})
	})

	Describe("senders", func() {
		It("receive messages from handlers", func() {
			reg.MustRegister(command.Definition{
				Name:   "test:hello",
				Params: []command.ParameterSpec{command.SenderParam("me")},
			}, func(_ context.Context, args *command.Args) error {
				args.Sender().SendMessage("hello, " + args.Sender().Name())
				return nil
			})

			Expect(reg.Invoke(ctx, sender, "hello", "")).To(Succeed())
			Expect(out.String()).To(Equal("hello, alice\n"))
		})
	})
})
