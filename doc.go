/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package tsc turns the CPU's invariant cycle counter into a cheap monotonic
time source, without going through the kernel's clock API.

Reading a clock through the OS costs a vDSO call at best and a syscall at
worst; reading the hardware counter costs a handful of cycles. For code that
timestamps very often (tracing, profiling, latency histograms) that difference
matters. This package discovers the counter's fixed tick rate once, then
converts raw counter readings to nanoseconds or seconds with plain integer
arithmetic.

Supported methods include
  - discovering the counter frequency from hardware through New, which on
    x86-64 walks the CPUID capability and timing leaves, and on arm64 reads
    the counter-timer frequency register
  - measuring the frequency against the OS monotonic clock through
    NewMeasured, for machines where hardware discovery fails
  - reading the raw counter through ReadCounter
  - converting tick counts to time through Nanoseconds, Seconds and Elapsed,
    and taking timestamps directly through NowNanoseconds and NowSeconds.

All conversions are pure functions of the immutable Clock value, so a Clock
can be copied freely and used from any number of goroutines without locking.

The package assumes all threads of the process observe one synchronized
counter domain (true on a single socket with an invariant counter). It does
not detect or compensate for unsynchronized counters across sockets; on such
machines readings taken on different CPUs are not comparable, and keeping the
process on one domain is the caller's job.
*/
package tsc
