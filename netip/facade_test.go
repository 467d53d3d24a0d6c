/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package netip_test

import (
	"github.com/oxenran/chops-net-ip/netip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeKind embeds a netip kind to pick up the sealed isEntityKind method,
// while its distinct concrete type keeps its own builder registration.
type fakeKind struct {
	netip.UDPKind
}

var _ = Describe("Facade", func() {
	It("fails for a kind with no registered builder", func() {
		f := netip.NewFacade()
		_, err := f.CreateEntity(fakeKind{})
		Expect(err).To(HaveOccurred())
	})

	It("tracks every entity it successfully creates", func() {
		netip.RegisterBuilder(fakeKind{}, func(kind netip.EntityKind) (netip.EntityTarget, error) {
			return &fakeEntity{}, nil
		})

		f := netip.NewFacade()
		e1, err := f.CreateEntity(fakeKind{})
		Expect(err).ToNot(HaveOccurred())
		e2, err := f.CreateEntity(fakeKind{})
		Expect(err).ToNot(HaveOccurred())

		Expect(f.Entities()).To(HaveLen(2))
		Expect(e1).ToNot(Equal(e2))
	})

	It("StopAll stops every tracked, started entity", func() {
		netip.RegisterBuilder(fakeKind{}, func(kind netip.EntityKind) (netip.EntityTarget, error) {
			return &fakeEntity{}, nil
		})

		f := netip.NewFacade()
		e, err := f.CreateEntity(fakeKind{})
		Expect(err).ToNot(HaveOccurred())
		Expect(e.Start(nil, nil, nil)).ToNot(HaveOccurred())

		errs := f.StopAll()
		Expect(errs).To(BeEmpty())
		Expect(e.IsStarted()).To(BeFalse())
	})
})
